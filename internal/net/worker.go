package net

import (
	"bufio"
	"net"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

// connPool is a fixed-size worker pool that drains accepted connections off
// a shared channel, adapted from the teacher's WorkerPool: instead of one
// goroutine per connection it caps concurrency at n workers, each reading
// one connection line-by-line until EOF before picking up the next.
type connPool struct {
	n     int
	tasks chan net.Conn
	work  func(t *tomb.Tomb, conn net.Conn)
	log   zerolog.Logger
}

func newConnPool(size int, log zerolog.Logger, work func(t *tomb.Tomb, conn net.Conn)) *connPool {
	return &connPool{
		n:     size,
		tasks: make(chan net.Conn, taskChanSize),
		work:  work,
		log:   log,
	}
}

func (p *connPool) addTask(conn net.Conn) {
	p.tasks <- conn
}

// setup keeps exactly n workers alive under t until t starts dying.
func (p *connPool) setup(t *tomb.Tomb) {
	p.log.Info().Int("workers", p.n).Msg("starting connection worker pool")
	active := 0
	for {
		select {
		case <-t.Dying():
			return
		default:
			if active < p.n {
				t.Go(func() error {
					p.worker(t)
					active--
					return nil
				})
				active++
			}
		}
	}
}

func (p *connPool) worker(t *tomb.Tomb) {
	select {
	case <-t.Dying():
		return
	case conn := <-p.tasks:
		p.work(t, conn)
	}
}

// scanLines reads newline-delimited records from conn and pushes each onto
// out until EOF, a read error, or t starts dying. The caller is
// responsible for closing conn and out.
func scanLines(t *tomb.Tomb, conn net.Conn, out chan<- string) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		select {
		case <-t.Dying():
			return
		case out <- scanner.Text():
		}
	}
}
