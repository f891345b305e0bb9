package reader

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"math/rand"

	"golang.org/x/net/context"
	"google.golang.org/grpc"

	"github.com/saltyoffshore/oceantiler/catalog"
	"github.com/saltyoffshore/oceantiler/pipeline"
	pb "github.com/saltyoffshore/oceantiler/reader/tileservice"
	"github.com/saltyoffshore/oceantiler/utils"
)

const DefaultRecvMsgSize = 10 * 1024 * 1024

// Reader fetches raster tile windows from the gRPC worker fleet and
// decodes them into masked buffers.
type Reader struct {
	Clients            []string
	MaxGrpcRecvMsgSize int
	verbose            bool
}

func New(clients []string, maxGrpcRecvMsgSize int, verbose bool) (*Reader, error) {
	if len(clients) == 0 {
		return nil, fmt.Errorf("no worker nodes configured")
	}
	if maxGrpcRecvMsgSize <= 0 {
		maxGrpcRecvMsgSize = DefaultRecvMsgSize
	}
	return &Reader{Clients: clients, MaxGrpcRecvMsgSize: maxGrpcRecvMsgSize, verbose: verbose}, nil
}

// GetTile reads one band of an asset warped onto the tile grid. Workers
// are tried in random order until one answers.
func (r *Reader) GetTile(ctx context.Context, entry *catalog.Entry, z, x, y, size int) (*pipeline.MaskedBuffer, error) {
	if err := utils.CheckTileCoords(z, x, y); err != nil {
		return nil, err
	}
	bounds := utils.TileBounds(z, x, y)

	granule := &pb.TileRequest{
		Path:   entry.Path,
		Band:   int32(entry.Band),
		Height: int32(size),
		Width:  int32(size),
		Bounds: bounds[:],
		NoData: entry.NoData,
	}

	opts := []grpc.DialOption{
		grpc.WithInsecure(),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(r.MaxGrpcRecvMsgSize)),
	}

	clientIdx := make([]int, len(r.Clients))
	for ic := range clientIdx {
		clientIdx[ic] = ic
	}
	rand.Shuffle(len(clientIdx), func(i, j int) { clientIdx[i], clientIdx[j] = clientIdx[j], clientIdx[i] })

	var lastErr error
	for _, ic := range clientIdx {
		address := r.Clients[ic]
		conn, err := grpc.Dial(address, opts...)
		if err != nil {
			log.Printf("gRPC connection problem: %v", err)
			lastErr = err
			continue
		}

		res, err := pb.NewTilerClient(conn).GetTile(ctx, granule)
		conn.Close()
		if err != nil {
			if r.verbose {
				log.Printf("worker %s returned error: %v", address, err)
			}
			lastErr = err
			continue
		}
		if len(res.Error) > 0 {
			return nil, fmt.Errorf("worker %s: %s", address, res.Error)
		}
		return decodeRaster(entry, res.Raster, bounds)
	}

	return nil, fmt.Errorf("All gRPC workers offline: %v", lastErr)
}

// decodeRaster converts the wire raster into a single band masked
// buffer. Pixels equal to the nodata value or non-finite are masked on
// top of the worker-supplied mask.
func decodeRaster(entry *catalog.Entry, raster *pb.Raster, bounds [4]float64) (*pipeline.MaskedBuffer, error) {
	if raster == nil {
		return nil, fmt.Errorf("worker returned empty raster")
	}
	width, height := int(raster.Width), int(raster.Height)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("worker returned degenerate raster %dx%d", width, height)
	}
	if len(raster.Data) != width*height*4 {
		return nil, fmt.Errorf("raster payload is %d bytes, expecting %d", len(raster.Data), width*height*4)
	}
	if len(raster.Mask) > 0 && len(raster.Mask) != width*height {
		return nil, fmt.Errorf("raster mask is %d entries, expecting %d", len(raster.Mask), width*height)
	}

	buf := pipeline.NewMaskedBuffer(1, width, height)
	buf.Metadata = pipeline.Metadata{
		Assets:    []string{entry.Path},
		CRS:       "EPSG:4326",
		Bounds:    bounds,
		BandNames: []string{entry.Dataset},
	}

	noData := raster.NoData
	for i := 0; i < width*height; i++ {
		bits := binary.LittleEndian.Uint32(raster.Data[i*4:])
		v := math.Float32frombits(bits)
		buf.Bands[0][i] = v

		masked := len(raster.Mask) > 0 && raster.Mask[i]
		if masked || float64(v) == noData || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			buf.Mask[i] = true
			buf.Bands[0][i] = 0
		}
	}
	return buf, nil
}
