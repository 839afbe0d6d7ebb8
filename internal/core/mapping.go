package core

// FileMapping is the decision taken for one input file. It is a closed set:
// the only implementations are MappedTo and Filtered, and consumers switch
// over both.
type FileMapping interface {
	// SourceName is the input file name the decision belongs to.
	SourceName() string
	fileMapping()
}

// MappedTo links From (inside the input directory) as To (inside the output
// directory). An identity rename is still a MappedTo.
type MappedTo struct {
	From string
	To   string
}

// Filtered marks a file whose extension failed the filter; it gets no link.
type Filtered struct {
	Name string
}

func (m MappedTo) SourceName() string { return m.From }
func (f Filtered) SourceName() string { return f.Name }

func (MappedTo) fileMapping() {}
func (Filtered) fileMapping() {}
