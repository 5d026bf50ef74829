package cli

// Config holds the options of one CLI run
type Config struct {
	// Patterns lists files, directories and "dir/..." trees to process
	Patterns []string

	// Check reports diagnostics without writing any output
	Check bool

	// Stdout prints expanded sources instead of writing files next to the inputs
	Stdout bool

	// Jobs bounds the number of files expanded at once; zero uses the configured
	// value, or the number of CPUs
	Jobs int

	// Verbose enables detailed error reporting
	Verbose bool
}
