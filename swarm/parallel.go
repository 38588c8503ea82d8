package swarm

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// stepJob carries one step's read-only inputs and write targets.
type stepJob struct {
	prevPos []positionPhase
	prevVel []r3.Vec
	nextPos []positionPhase
	nextVel []r3.Vec
	bounds  Bounds
	dt      float64
}

// run applies both kernels to cells [i0, i1).
func (j *stepJob) run(i0, i1 int) {
	for i := i0; i < i1; i++ {
		p := j.prevPos[i]
		v := j.prevVel[i]

		j.nextVel[i] = StepVelocity(p.Position, v, j.bounds)

		pos, phase := StepPosition(p.Position, p.Phase, v, j.dt)
		j.nextPos[i] = positionPhase{Position: pos, Phase: phase}
	}
}

// workChunk represents a range of cells for a worker to process.
type workChunk struct {
	start, end int
	job        *stepJob
}

// workerPool runs step chunks on persistent goroutines.
type workerPool struct {
	numWorkers int

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &workerPool{numWorkers: numWorkers}
}

// start launches the worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.job.run(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// run splits n cells across the workers and blocks until all are done.
func (p *workerPool) run(job *stepJob, n int) {
	if !p.running {
		p.start()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{start: start, end: end, job: job}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
