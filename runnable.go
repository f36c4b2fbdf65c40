package hardlight

// Runnable is the interface implemented by loop systems.
// Run is called once per matching entity, or once per tick for loops
// without an *Entity field.
type Runnable interface {
	Run()
}
