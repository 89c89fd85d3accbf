package teleport

// Runnable is the interface implemented by scheduled tasks.
// The Run method contains the task's logic and is called when the task is due.
type Runnable interface {
	Run()
}

// RunnableFunc adapts a plain function to Runnable.
type RunnableFunc func()

// Run implements Runnable.
func (f RunnableFunc) Run() {
	f()
}
