package particle

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum live count to dispatch the modifier pass
// to workers. Below this, goroutine overhead loses to the plain loop.
const parallelThreshold = 256

// workChunk is a range of the live index list for one worker.
type workChunk struct {
	start, end int
}

// modifierWorkers is a persistent worker pool for the modifier pass.
// Each particle's update reads only its own record plus read-only shared
// data (curves, noise field), and no modifier draws from the random source,
// so chunked application is bit-identical to the sequential loop for any
// worker count.
type modifierWorkers struct {
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup

	// Current job, set by run before dispatch. Workers only read these.
	sys  *System
	live []int
	dt   float32
	ctx  *ModContext
}

func newModifierWorkers() *modifierWorkers {
	w := &modifierWorkers{
		numWorkers: runtime.GOMAXPROCS(0),
	}
	w.workChan = make(chan workChunk, w.numWorkers)
	w.doneChan = make(chan struct{}, w.numWorkers)
	w.stopChan = make(chan struct{})
	for i := 0; i < w.numWorkers; i++ {
		w.wg.Add(1)
		go w.worker()
	}
	return w
}

func (w *modifierWorkers) worker() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopChan:
			return
		case chunk, ok := <-w.workChan:
			if !ok {
				return
			}
			w.sys.applyModifiers(w.live[chunk.start:chunk.end], w.dt, w.ctx)
			w.doneChan <- struct{}{}
		}
	}
}

// run dispatches the live list across the workers and blocks until every
// chunk is done. Called from the single Update goroutine only.
func (w *modifierWorkers) run(s *System, live []int, dt float32, ctx *ModContext) {
	w.sys = s
	w.live = live
	w.dt = dt
	w.ctx = ctx

	n := len(live)
	chunkSize := (n + w.numWorkers - 1) / w.numWorkers
	dispatched := 0
	for i := 0; i < w.numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		w.workChan <- workChunk{start: start, end: end}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-w.doneChan
	}

	w.sys = nil
	w.live = nil
	w.ctx = nil
}

// stop signals all workers to exit and waits for them.
func (w *modifierWorkers) stop() {
	close(w.stopChan)
	w.wg.Wait()
}
