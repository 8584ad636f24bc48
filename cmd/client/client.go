// Command client is a manual test client: it connects to the quote-ingest
// server and sends one or more hand-specified quote records, for poking
// the aggregator from a terminal. It is not the config-driven synthetic
// quote generator spec.md excludes — it sends exactly the records given on
// the command line, nothing more.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:7000", "address of the quote ingest server")
	lp := flag.String("lp", "MS", "liquidity provider identifier")
	pair := flag.String("pair", "EURUSD", "currency pair")
	bid1 := flag.Float64("bid1", 1.5556, "1M bid price")
	ask1 := flag.Float64("ask1", 1.5566, "1M ask price")
	bid3 := flag.Float64("bid3", 1.5555, "3M bid price")
	ask3 := flag.Float64("ask3", 1.5567, "3M ask price")
	bid5 := flag.Float64("bid5", 1.5554, "5M bid price")
	ask5 := flag.Float64("ask5", 1.5568, "5M ask price")
	repeat := flag.Int("repeat", 1, "number of times to resend the record")
	interval := flag.Duration("interval", 0, "delay between repeats")
	flag.Parse()

	if strings.TrimSpace(*lp) == "" || strings.TrimSpace(*pair) == "" {
		fmt.Println("error: -lp and -pair must not be empty")
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Error().Err(err).Str("server", *serverAddr).Msg("unable to connect")
		os.Exit(1)
	}
	defer conn.Close()

	for i := 0; i < *repeat; i++ {
		line := fmt.Sprintf("%s|%s|%.4f|%.4f|%.4f|%.4f|%.4f|%.4f|%d\n",
			*lp, *pair, *bid1, *ask1, *bid3, *ask3, *bid5, *ask5, time.Now().UnixNano())
		if _, err := conn.Write([]byte(line)); err != nil {
			log.Error().Err(err).Msg("write failed")
			os.Exit(1)
		}
		fmt.Print("-> sent: ", line)
		if *interval > 0 && i < *repeat-1 {
			time.Sleep(*interval)
		}
	}
}
