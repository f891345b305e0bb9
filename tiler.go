// Ocean raster tile server.
//
// Serves PNG map tiles rendered from masked float32 rasters: the
// catalog resolves a dataset and tile coordinates to assets, the gRPC
// worker fleet reads and warps the raster windows, and the pipeline
// applies the requested value transform and colour mapping.

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "net/http/pprof"

	reuseport "github.com/kavu/go_reuseport"
	"gopkg.in/yaml.v2"

	"github.com/saltyoffshore/oceantiler/catalog"
	"github.com/saltyoffshore/oceantiler/metrics"
	"github.com/saltyoffshore/oceantiler/pipeline"
	"github.com/saltyoffshore/oceantiler/reader"
	"github.com/saltyoffshore/oceantiler/utils"
)

var (
	port            = flag.Int("p", 8080, "Server listening port.")
	serverDataDir   = flag.String("data_dir", utils.DataDir, "Server data directory.")
	serverConfigDir = flag.String("conf_dir", utils.EtcDir, "Server config directory.")
	serverLogDir    = flag.String("log_dir", "", "Server log directory.")
	validateConfig  = flag.Bool("check_conf", false, "Validate server config files.")
	dumpConfig      = flag.Bool("dump_conf", false, "Dump server config files.")
	renderConc      = flag.Int("conc", 16, "Maximum number of tiles rendered concurrently.")
	verbose         = flag.Bool("v", false, "Verbose mode for more server outputs.")
)

var (
	Error *log.Logger
	Info  *log.Logger
)

var (
	configMap     map[string]*utils.Config
	reTileMap     map[string]*regexp.Regexp
	tableCache    *pipeline.TableCache
	tileCache     *utils.TileCache
	renderLimiter *pipeline.ConcLimiter
	cat           *catalog.Catalog
	rasterReader  *reader.Reader
	metricsLogger metrics.Logger
)

var tilePathRe = regexp.MustCompile(`^/tiles/([0-9]+)/([0-9]+)/([0-9]+)\.png$`)

// init initialises the loggers, parses the flags and loads the layer
// configuration before any request is accepted.
func init() {
	Error = log.New(os.Stderr, "TILER: ", log.Ldate|log.Ltime|log.Lshortfile)
	Info = log.New(os.Stdout, "TILER: ", log.Ldate|log.Ltime|log.Lshortfile)

	flag.Parse()

	utils.DataDir = *serverDataDir
	utils.EtcDir = *serverConfigDir

	var err error
	configMap, err = utils.LoadAllConfigFiles(utils.EtcDir)
	if err != nil {
		Error.Printf("Error in loading config files: %v\n", err)
		os.Exit(1)
	}

	if *validateConfig {
		Info.Printf("Config files are valid")
		os.Exit(0)
	}

	if *dumpConfig {
		for ns, config := range configMap {
			out, err := yaml.Marshal(config)
			if err != nil {
				Error.Printf("Error in dumping configs: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("# namespace: %s\n%s\n", ns, out)
		}
		os.Exit(0)
	}

	reTileMap = utils.CompileTileRegexMap()
	tableCache = pipeline.NewTableCache()
	renderLimiter = pipeline.NewConcLimiter(*renderConc)

	rootConfig := configMap["."]
	if rootConfig != nil {
		svc := rootConfig.ServiceConfig
		tileCache = utils.NewTileCache(svc.MemcacheAddress, svc.TileCacheMaxAge)

		if svc.CatalogDSN != "" {
			cat, err = catalog.New(svc.CatalogDSN, svc.MemcacheAddress, 8, 64)
			if err != nil {
				Error.Printf("Error connecting to catalog: %v\n", err)
				os.Exit(1)
			}
		}
		if len(svc.WorkerNodes) > 0 {
			rasterReader, err = reader.New(svc.WorkerNodes, reader.DefaultRecvMsgSize, *verbose)
			if err != nil {
				Error.Printf("Error creating raster reader: %v\n", err)
				os.Exit(1)
			}
		}
	}

	utils.WatchConfig(Info, Error, &configMap)

	if len(*serverLogDir) > 0 {
		if *serverLogDir == "-" {
			metricsLogger = metrics.NewStdoutLogger()
		} else {
			maxLogFileSize := int64(0)
			if val, ok := os.LookupEnv("TILER_MAX_LOG_FILE_SIZE"); ok {
				valInt, e := strconv.ParseInt(val, 10, 64)
				if e == nil {
					maxLogFileSize = valInt
				} else {
					Error.Printf("invalid TILER_MAX_LOG_FILE_SIZE: %v", e)
				}
			}

			maxLogFiles := -1
			if val, ok := os.LookupEnv("TILER_MAX_LOG_FILES"); ok {
				valInt, e := strconv.ParseInt(val, 10, 32)
				if e == nil {
					maxLogFiles = int(valInt)
				} else {
					Error.Printf("invalid TILER_MAX_LOG_FILES: %v", e)
				}
			}

			metricsLogger = metrics.NewFileLogger(*serverLogDir, maxLogFileSize, maxLogFiles, *verbose)
		}
	}
}

// findLayer resolves a dataset name across all configured namespaces.
func findLayer(dataset string) (*utils.Layer, *utils.Config, error) {
	for _, config := range configMap {
		if layer, err := config.GetLayer(dataset); err == nil {
			return layer, config, nil
		}
	}
	return nil, nil, fmt.Errorf("dataset %q not configured", dataset)
}

// transformArgs merges the layer transform defaults with the request
// overrides into the pipeline argument struct.
func transformArgs(tp *utils.TileParams, defaults *utils.TransformDefaults) (string, *pipeline.TransformArgs, error) {
	args := &pipeline.TransformArgs{}
	name := ""

	if defaults != nil {
		name = defaults.Name
		args.Eps = defaults.Eps
		args.Min = defaults.MinValue
		args.Max = defaults.MaxValue
		args.Gamma = defaults.Gamma
		args.Method = defaults.Method
		args.OutputDirection = defaults.OutputDirection
		args.Expression = defaults.Expression
		args.Breakpoints = defaults.Breakpoints
		args.Points = defaults.Points
		for _, hex := range defaults.Colors {
			c, err := utils.HexToRGBA(hex)
			if err != nil {
				return "", nil, err
			}
			args.Colors = append(args.Colors, c)
		}
	}

	if tp.Transform != nil {
		name = *tp.Transform
	}
	if tp.Expression != nil {
		name = "expression"
		args.Expression = *tp.Expression
	}
	if tp.Eps != nil {
		args.Eps = *tp.Eps
	}
	if tp.MinValue != nil {
		args.Min = *tp.MinValue
	}
	if tp.MaxValue != nil {
		args.Max = *tp.MaxValue
	}
	if tp.Gamma != nil {
		args.Gamma = *tp.Gamma
	}
	if tp.Method != "" {
		args.Method = tp.Method
	}
	if tp.OutputDirection {
		args.OutputDirection = true
	}
	if len(tp.Breakpoints) > 0 {
		args.Breakpoints = tp.Breakpoints
	}
	if len(tp.Points) > 0 {
		args.Points = tp.Points
	}
	if len(tp.Colours) > 0 {
		args.Colors = tp.Colours
	}
	if len(tp.Stops) > 0 {
		args.Stops = args.Stops[:0]
		for _, s := range tp.Stops {
			args.Stops = append(args.Stops, pipeline.ColorStop{Position: s.Value, Color: s.Colour})
		}
	}
	if args.Method == "" {
		args.Method = pipeline.GradientSobel
	}
	return name, args, nil
}

// colorTable resolves the colour table of a request through the shared
// single-flight cache. Named palette stops are spread evenly across the
// rescale range before any log projection.
func colorTable(tp *utils.TileParams, layer *utils.Layer, min, max float64) (*pipeline.ColorTable, error) {
	mode := layer.ColormapMode
	if tp.ColormapMode != "" {
		mode = tp.ColormapMode
	}
	gamma := tp.ColormapGamma
	n := tp.ColormapBins

	name := layer.Palette
	if tp.ColormapName != nil {
		name = *tp.ColormapName
	}
	palette, err := utils.GetPalette(name)
	if err != nil {
		return nil, err
	}

	key := pipeline.TableKey{Ramp: name, Mode: mode, Min: min, Max: max, Gamma: gamma, Size: n}
	return tableCache.Get(key, func() (*pipeline.ColorTable, error) {
		switch mode {
		case pipeline.TableModeLinear:
			return pipeline.BuildLinearTable(palette.Colours, n)
		case pipeline.TableModeGamma:
			return pipeline.BuildGammaTable(palette.Colours, gamma, n)
		case pipeline.TableModeLog:
			stops := make([]pipeline.ColorStop, len(palette.Colours))
			step := (max - min) / float64(len(palette.Colours)-1)
			for i, c := range palette.Colours {
				stops[i] = pipeline.ColorStop{Position: min + float64(i)*step, Color: c}
			}
			return pipeline.BuildLogTable(stops, min, max, n)
		}
		return nil, fmt.Errorf("unknown colormap mode %q", mode)
	})
}

// buildPipeline maps one checked tile request onto a render pipeline.
func buildPipeline(tp *utils.TileParams, layer *utils.Layer) (*pipeline.Pipeline, error) {
	min, max := layer.RescaleMin, layer.RescaleMax
	if tp.ScaleMin != nil && tp.ScaleMax != nil {
		min, max = *tp.ScaleMin, *tp.ScaleMax
	}

	name, args, err := transformArgs(tp, layer.Transform)
	if err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{ScaleMin: min, ScaleMax: max}
	if name != "" {
		tr, err := pipeline.NewTransform(name, args)
		if err != nil {
			return nil, err
		}
		p.Transform = tr
	}

	// RGB transforms synthesize colours themselves
	if _, isRGB := p.Transform.(pipeline.RGBTransform); !isRGB {
		table, err := colorTable(tp, layer, min, max)
		if err != nil {
			return nil, err
		}
		p.Table = table
	}
	return p, nil
}

// tileHandler serves /tiles/{z}/{x}/{y}.png
func tileHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if *verbose {
		Info.Printf("%s\n", r.URL.String())
	}
	ctx := r.Context()

	metricsCollector := metrics.NewMetricsCollector(metricsLogger)
	defer metricsCollector.Log()

	t0 := time.Now()
	metricsCollector.Info.ReqTime = t0.Format("2006-01-02T15:04:05.000Z")
	metricsCollector.Info.URL.RawURL = r.URL.String()
	metricsCollector.Info.RemoteAddr = r.RemoteAddr
	metricsCollector.Info.HTTPStatus = 200
	defer func() { metricsCollector.Info.ReqDuration = time.Since(t0) }()

	m := tilePathRe.FindStringSubmatch(r.URL.Path)
	if m == nil {
		metricsCollector.Info.HTTPStatus = 404
		http.Error(w, fmt.Sprintf("Not a tile request: %s", r.URL.Path), 404)
		return
	}
	z, _ := strconv.Atoi(m[1])
	x, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[3])
	if err := utils.CheckTileCoords(z, x, y); err != nil {
		metricsCollector.Info.HTTPStatus = 400
		http.Error(w, err.Error(), 400)
		return
	}
	metricsCollector.Info.Tile.Zoom = z
	metricsCollector.Info.Tile.X = x
	metricsCollector.Info.Tile.Y = y

	tp, err := utils.TileParamsChecker(r.URL.Query(), reTileMap)
	if err != nil {
		metricsCollector.Info.HTTPStatus = 400
		http.Error(w, fmt.Sprintf("Wrong tile parameters on URL: %s", err), 400)
		return
	}
	if tp.Dataset == "" {
		metricsCollector.Info.HTTPStatus = 400
		http.Error(w, "Request does not contain a 'dataset' parameter.", 400)
		return
	}
	metricsCollector.Info.Tile.Dataset = tp.Dataset
	if tp.Transform != nil {
		metricsCollector.Info.Tile.Transform = *tp.Transform
	}
	if tp.ColormapName != nil {
		metricsCollector.Info.Tile.Palette = *tp.ColormapName
	}

	layer, config, err := findLayer(tp.Dataset)
	if err != nil {
		metricsCollector.Info.HTTPStatus = 404
		http.Error(w, err.Error(), 404)
		return
	}
	if layer.ZoomLimit > 0 && float64(z) > layer.ZoomLimit {
		metricsCollector.Info.HTTPStatus = 400
		http.Error(w, fmt.Sprintf("Zoom level %d exceeds the layer limit %v", z, layer.ZoomLimit), 400)
		return
	}

	cacheKey := ""
	if tileCache != nil {
		cacheKey = tileCache.Key(r.URL.RequestURI())
		if data, ok := tileCache.Get(cacheKey); ok {
			metricsCollector.Info.Tile.CacheHit = true
			metricsCollector.Info.Render.BytesOut = len(data)
			writeTile(w, config, tp, layer, z, x, y, data)
			return
		}
	}

	p, err := buildPipeline(&tp, layer)
	if err != nil {
		Error.Printf("%s\n", err)
		metricsCollector.Info.HTTPStatus = 400
		http.Error(w, err.Error(), 400)
		return
	}

	if cat == nil || rasterReader == nil {
		metricsCollector.Info.HTTPStatus = 500
		http.Error(w, "Server has no catalog or raster workers configured.", 500)
		return
	}

	entries, err := cat.Lookup(tp.Dataset, z, x, y)
	if err != nil {
		// tiles no asset covers come back blank
		data, err := utils.TransparentTile(utils.TileSize, utils.TileSize)
		if err != nil {
			metricsCollector.Info.HTTPStatus = 500
			http.Error(w, err.Error(), 500)
			return
		}
		writeTile(w, config, tp, layer, z, x, y, data)
		return
	}
	metricsCollector.Info.Render.NumAssets = len(entries)

	renderLimiter.Increase()
	defer renderLimiter.Decrease()

	tRender := time.Now()
	buf, err := rasterReader.GetTile(ctx, entries[0], z, x, y, utils.TileSize)
	if err != nil {
		Error.Printf("%s\n", err)
		metricsCollector.Info.HTTPStatus = 500
		http.Error(w, err.Error(), 500)
		return
	}

	out, err := p.Render(buf)
	if err != nil {
		Error.Printf("%s\n", err)
		metricsCollector.Info.HTTPStatus = 500
		http.Error(w, err.Error(), 500)
		return
	}

	data, err := pipeline.EncodePNG(out)
	if err != nil {
		Error.Printf("%s\n", err)
		metricsCollector.Info.HTTPStatus = 500
		http.Error(w, err.Error(), 500)
		return
	}
	metricsCollector.Info.Render.Duration = time.Since(tRender)
	metricsCollector.Info.Render.BytesOut = len(data)

	if tileCache != nil {
		tileCache.Put(cacheKey, data)
	}
	writeTile(w, config, tp, layer, z, x, y, data)
}

func writeTile(w http.ResponseWriter, config *utils.Config, tp utils.TileParams, layer *utils.Layer, z, x, y int, data []byte) {
	min, max := layer.RescaleMin, layer.RescaleMax
	if tp.ScaleMin != nil && tp.ScaleMax != nil {
		min, max = *tp.ScaleMin, *tp.ScaleMax
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", config.ServiceConfig.TileCacheMaxAge))
	w.Header().Set("X-Rescale", fmt.Sprintf("%v,%v", min, max))
	w.Header().Set("X-Tile-Coords", fmt.Sprintf("%d/%d/%d", z, x, y))
	w.Write(data)
}

// metadataHandler serves /metadata/{dataset}
func metadataHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	dataset := r.URL.Path[len("/metadata/"):]

	layer, _, err := findLayer(dataset)
	if err != nil {
		http.Error(w, err.Error(), 404)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	tplPath := filepath.Join(utils.DataDir, "templates", "metadata.tpl")
	if err := utils.RenderLayerMetadata(w, layer, tplPath); err != nil {
		Error.Printf("%s\n", err)
		http.Error(w, err.Error(), 500)
	}
}

func fileHandler(w http.ResponseWriter, r *http.Request) {
	upath := r.URL.Path
	if !strings.HasPrefix(upath, "/") {
		upath = "/" + upath
		r.URL.Path = upath
	}
	upath = path.Clean(upath)
	upath = filepath.Join(utils.DataDir+"/static", upath)

	if *verbose {
		Info.Printf("%s -> %s\n", r.URL.String(), upath)
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate, max-age=0")
	http.ServeFile(w, r, upath)
}

func main() {
	http.HandleFunc("/", fileHandler)
	http.HandleFunc("/tiles/", tileHandler)
	http.HandleFunc("/metadata/", metadataHandler)

	lis, err := reuseport.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", *port))
	if err != nil {
		log.Fatal(err)
	}

	Info.Printf("Tiler is ready")
	log.Fatal(http.Serve(lis, nil))
}
