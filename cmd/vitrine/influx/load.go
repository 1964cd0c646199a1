package influx

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openpane/vitrine/util"
)

func init() {
	influxCmd.AddCommand(influxLoadCmd)
}

var influxLoadCmd = &cobra.Command{
	Use:   "load <metricsRoot>",
	Short: "Load metrics data into the analyzer",
	Args:  cobra.ExactArgs(1),
	Run:   influxLoad,
}

func influxLoad(_ *cobra.Command, args []string) {
	metricsMap, err := util.DiscoverMetrics(args[0])
	if err != nil {
		panic(err)
	}

	authToken := ""
	if influxDbUsername != "" || influxDbPassword != "" {
		authToken = fmt.Sprintf("%s:%s", influxDbUsername, influxDbPassword)
	}
	client := influxdb2.NewClient(influxDbUrl, authToken)
	writeApi := client.WriteAPI("", influxDbDatabase)

	for root, metricsId := range metricsMap {
		surface := filepath.Base(root)
		for _, dataset := range datasets {
			data, err := readDataset(filepath.Join(root, dataset+".csv"))
			if err != nil {
				logrus.Errorf("error reading dataset [%s] in [%s] (%v)", dataset, root, err)
				continue
			}
			for ts, v := range data {
				t := time.Unix(0, ts)
				p := influxdb2.NewPoint(dataset, nil, map[string]interface{}{"v": v}, t).
					AddTag("surface", surface).
					AddTag("source", metricsId.Id)
				writeApi.WritePoint(p)
			}
			logrus.Infof("wrote %d points for surface [%s] dataset [%s]", len(data), surface, dataset)
		}
	}

	client.Close()
}

func readDataset(path string) (data map[int64]int64, err error) {
	var raw []byte
	raw, err = os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = make(map[int64]int64)
	scanner := bufio.NewScanner(bytes.NewBuffer(raw))
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Split(line, ",")
		if len(tokens) != 2 {
			continue
		}
		ts, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(tokens[1], 10, 64)
		if err != nil {
			return nil, err
		}
		data[ts] = v
	}

	return
}

var datasets = []string{
	"allocations",
	"allocation_fails",
	"reuses",
	"reclaims",
	"evictions",
	"available_sz",
	"in_use_sz",
	"pending_sz",
	"frames_locked",
	"frames_committed",
	"commits_deferred",
	"commits_superseded",
	"copy_rects",
	"copy_bytes",
	"resizes",
}
