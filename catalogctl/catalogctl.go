// Admin tool for the dataset catalog.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/saltyoffshore/oceantiler/catalog"
	"github.com/saltyoffshore/oceantiler/utils"
)

var passed string = "Passed"
var failed string = "Failed"

func inRed(str string) string {
	return fmt.Sprintf("\x1b[31;1m%s\x1b[0m", str)
}

func inGreen(str string) string {
	return fmt.Sprintf("\x1b[32;1m%s\x1b[0m", str)
}

func buildDSN(host, database, user string) string {
	if strings.HasPrefix(host, "/") {
		return fmt.Sprintf("user=%s host=%s dbname=%s sslmode=disable", user, host, database)
	}

	fmt.Printf("Password for %s@%s: ", user, host)
	password, err := terminal.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatal(err)
	}
	return fmt.Sprintf("user=%s password=%s host=%s dbname=%s", user, string(password), host, database)
}

func register(cat *catalog.Catalog, dataset, path string, band int, noData float64, minZoom, maxZoom int, bounds []float64) {
	entry := &catalog.Entry{
		Dataset:   dataset,
		Path:      path,
		Band:      band,
		NoData:    noData,
		MinZoom:   minZoom,
		MaxZoom:   maxZoom,
		Timestamp: time.Now().UTC(),
	}
	err := cat.Register(entry, bounds[0], bounds[1], bounds[2], bounds[3])
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Registered %s band %d for %s\n", path, band, dataset)
}

func list(cat *catalog.Catalog) {
	datasets, err := cat.Datasets()
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range datasets {
		fmt.Println(name)
	}
}

// verify checks every configured layer resolves to at least one asset
// for the world tile.
func verify(cat *catalog.Catalog, etcDir string) bool {
	configMap, err := utils.LoadAllConfigFiles(etcDir)
	if err != nil {
		log.Fatal(err)
	}

	ok := true
	for ns, config := range configMap {
		for _, layer := range config.Layers {
			fmt.Printf("Checking %s/%s: ", ns, layer.Name)
			if _, err := cat.Lookup(layer.Name, 0, 0, 0); err != nil {
				fmt.Println(failed, err)
				ok = false
				continue
			}
			fmt.Println(passed)
		}
	}
	return ok
}

func main() {
	host := flag.String("h", "/var/run/postgresql", "catalog host name or socket directory")
	database := flag.String("database", "catalog", "database name")
	user := flag.String("user", "tiler", "database user name")
	action := flag.String("a", "list", "Action [register, list, verify]")
	dataset := flag.String("dataset", "", "dataset name")
	path := flag.String("path", "", "asset path")
	band := flag.Int("band", 1, "asset band")
	noData := flag.Float64("nodata", -9999, "nodata value")
	minZoom := flag.Int("min_zoom", 0, "minimum zoom level served")
	maxZoom := flag.Int("max_zoom", 12, "maximum zoom level served")
	bbox := flag.String("bbox", "-180,-90,180,90", "asset bounding box minLon,minLat,maxLon,maxLat")
	etcDir := flag.String("conf", ".", "config directory for verify")
	flag.Parse()

	if terminal.IsTerminal(int(os.Stdout.Fd())) {
		passed = inGreen(passed)
		failed = inRed(failed)
	}

	cat, err := catalog.New(buildDSN(*host, *database, *user), "", 4, 16)
	if err != nil {
		log.Fatal(err)
	}
	defer cat.Close()

	switch *action {
	case "register":
		if *dataset == "" || *path == "" {
			log.Fatal("register requires -dataset and -path")
		}
		var bounds []float64
		for _, part := range strings.Split(*bbox, ",") {
			var v float64
			if _, err := fmt.Sscanf(strings.TrimSpace(part), "%g", &v); err != nil {
				log.Fatalf("malformed bbox: %v", err)
			}
			bounds = append(bounds, v)
		}
		if len(bounds) != 4 {
			log.Fatalf("bbox must have 4 components, got %d", len(bounds))
		}
		register(cat, *dataset, *path, *band, *noData, *minZoom, *maxZoom, bounds)
	case "list":
		list(cat)
	case "verify":
		if !verify(cat, *etcDir) {
			os.Exit(1)
		}
	default:
		log.Fatalf("unknown action %q, supported: register, list, verify", *action)
	}
}
