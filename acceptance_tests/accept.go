package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/saltyoffshore/oceantiler/pipeline"
)

var metadata_doc string = "http://%s/metadata/%s"

var passed string = "Passed"
var failed string = "Failed"

func Metadata(host, dataset string) bool {
	resp, err := http.Get(fmt.Sprintf(metadata_doc, host, dataset))
	if err != nil {
		log.Fatal(err)
	}
	if resp.StatusCode != 200 {
		return false
	}

	return true
}

// Tiles fires every URL in urlList at the server concurrently and
// expects 200 for each. Each line is a format string taking the host.
func Tiles(host, urlList string, concLevel int) (bool, time.Duration) {
	out := true
	start := time.Now()
	f, err := os.Open(urlList)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	conc := pipeline.NewConcLimiter(concLevel)
	results := make(chan int)
	defer close(results)
	go func() {
		for res := range results {
			if res != 200 {
				out = false
			}
		}
	}()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		conc.Increase()
		go func(url string) {
			resp, err := http.Get(fmt.Sprintf(url, host))
			if err != nil {
				log.Fatal(err)
			}
			results <- resp.StatusCode
			conc.Decrease()
		}(scanner.Text())
	}

	conc.Wait()

	return out, time.Since(start)
}

func inRed(str string) string {
	return fmt.Sprintf("\x1b[31;1m%s\x1b[0m", str)
}

func inGreen(str string) string {
	return fmt.Sprintf("\x1b[32;1m%s\x1b[0m", str)
}

func main() {
	host := flag.String("h", "localhost:8080", "Tiler host name or address")
	dataset := flag.String("d", "sst_geopolar", "Dataset for the metadata check")
	conc := flag.Int("n", 6, "Concurrency level for acceptance tests")
	flag.Parse()

	var t time.Duration
	var ok bool

	if terminal.IsTerminal(int(os.Stdout.Fd())) {
		passed = inGreen(passed)
		failed = inRed(failed)
	}

	fmt.Printf("Testing layer metadata: ")
	if !Metadata(*host, *dataset) {
		fmt.Println(failed)
		os.Exit(1)
	}
	fmt.Println(passed)

	fmt.Printf("Testing tile rendering: ")
	if ok, t = Tiles(*host, "acpt_url.tpl", *conc); !ok {
		fmt.Println(failed)
		os.Exit(1)
	}
	fmt.Println(passed, t)
}
