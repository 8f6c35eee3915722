package orchestration

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const taskQueueCapacity = 10

type queuedTask struct {
	run      func()
	queuedAt time.Time
}

// serialTasks runs queued tasks one at a time on a single goroutine,
// preserving enqueue order. The orchestrator uses it to serialize text
// prompts with in-flight audio dispatches.
type serialTasks struct {
	queue   chan queuedTask
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newSerialTasks() *serialTasks {
	return &serialTasks{
		queue:   make(chan queuedTask, taskQueueCapacity), // TODO: Figure out good values for this.
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (tasks *serialTasks) start() (started bool) {
	if tasks == nil || tasks.isClosed() {
		return false
	}

	tasks.startOnce.Do(func() {
		if tasks.isClosed() {
			return
		}

		started = true
		tasks.started.Store(true)
		go func() {
			defer close(tasks.done)

			for {
				select {
				case <-tasks.closeCh:
					return
				case task := <-tasks.queue:
					if tasks.isClosed() {
						return
					}
					tasks.process(task)
				}
			}
		}()
	})

	return started
}

func (tasks *serialTasks) enqueue(run func()) bool {
	if tasks == nil || run == nil {
		return false
	}

	if tasks.isClosed() {
		return false
	}

	task := queuedTask{run: run, queuedAt: time.Now()}
	select {
	case <-tasks.closeCh:
		return false
	case tasks.queue <- task:
		return true
	}
}

func (tasks *serialTasks) end() {
	if tasks == nil {
		return
	}

	tasks.endOnce.Do(func() {
		close(tasks.closeCh)
	})
}

func (tasks *serialTasks) waitUntilEnded() {
	if tasks == nil {
		return
	}

	if tasks.started.Load() {
		<-tasks.done
	}
}

func (tasks *serialTasks) isClosed() bool {
	if tasks == nil {
		return true
	}

	select {
	case <-tasks.closeCh:
		return true
	default:
		return false
	}
}

func (tasks *serialTasks) process(task queuedTask) {
	_, span := tracer.Start(context.Background(), "process task")
	defer span.End()

	queuedTime := time.Since(task.queuedAt).Seconds()
	span.AddEvent("taken out of queue", trace.WithAttributes(attribute.Float64("task.queued_time", queuedTime)))
	span.SetAttributes(attribute.Float64("task.queued_time", queuedTime))

	task.run()
}
