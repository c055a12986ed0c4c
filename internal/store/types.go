package store

// MaxNumber is the largest note number the allocator hands out.
// Files written by earlier versions stored numbers as 16-bit unsigned values.
const MaxNumber = 65535

// Note is a single row of the notes table.
type Note struct {
	Number int    // Number is the primary key, 1..MaxNumber.
	Text   string // Text is stored verbatim; a literal `\n` is only expanded for display.
	Done   bool   // Done is false at creation.
}
