// Command ladder is a read-only terminal ladder printer. It dials the
// aggregator's /ladder websocket and reprints the book on every snapshot
// frame: asks deep-to-best, a separator, bids best-to-deep, per spec.md
// §6's ladder rendering contract. It is a plain terminal printer, not the
// GUI renderer spec.md excludes.
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"fxbook/internal/book"

	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	bidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	askStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
)

func main() {
	addr := flag.String("addr", "localhost:8080", "host:port of the aggregator's websocket hub")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ladder"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Error().Err(err).Str("url", u.String()).Msg("unable to connect to ladder hub")
		os.Exit(1)
	}
	defer conn.Close()

	for {
		var snap book.Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			log.Error().Err(err).Msg("ladder websocket read failed")
			os.Exit(1)
		}
		render(snap)
	}
}

func render(snap book.Snapshot) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headStyle.Render(fmt.Sprintf("%s  ts=%d", snap.Pair, snap.TS)))

	for i := len(snap.Asks) - 1; i >= 0; i-- {
		b.WriteString(askStyle.Render(row("ASK", snap.Asks[i])))
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("-", 48) + "\n")
	for _, lvl := range snap.Bids {
		b.WriteString(bidStyle.Render(row("BID", lvl)))
		b.WriteString("\n")
	}

	fmt.Print(b.String())
}

func row(side string, lvl book.LevelSnapshot) string {
	contribs := make([]string, len(lvl.Contribs))
	for i, c := range lvl.Contribs {
		contribs[i] = fmt.Sprintf("%s: %dM", c.LP, int64(c.Notional))
	}
	return fmt.Sprintf("%-4s %.4f  %3dM  (%s)", side, lvl.Price, lvl.Volume, strings.Join(contribs, ", "))
}
