// Package queue provides a small repository-agnostic task queue.
//
// An Enqueuer stores events as pending tasks and hands back a Ticket without
// waiting for the work to run. A Worker claims ready tasks and dispatches them
// to the Handler registered under the task name, retrying failures with a
// backoff until the task runs out of attempts.
//
//	storage := queue.NewMemoryStorage()
//	enq, _ := queue.NewEnqueuer(storage)
//	ticket, err := enq.Enqueue(ctx, FileUploaded{Path: "a/b.txt"})
//
//	w, _ := queue.NewWorker(storage, queue.WithWorkerLogger(log))
//	w.RegisterHandlers(queue.NewTaskHandler(func(ctx context.Context, e FileUploaded) error {
//		return nil
//	}))
//	g.Go(w.Run(ctx))
//
// Task names default to the qualified type name of the payload, so
// NewTaskHandler[T] matches events of type T.
package queue
