package merge

import "regexp"

// doubleCompletion matches a completion marker at the start of a line that
// is followed, after an optional completion date, by one or more further
// markers. Both sides completing the same task produce this shape.
var doubleCompletion = regexp.MustCompile(`(?m)^x (?:(?:[-0-9]{1,10} )?x )+`)

// NormalizeCompletions collapses doubled completion markers to a single
// "x ". When both copies carried a completion date, the later marker's date
// is kept. Applying it twice is the same as applying it once.
func NormalizeCompletions(text string) string {
	return doubleCompletion.ReplaceAllLiteralString(text, "x ")
}

// HasDoubleCompletion reports whether NormalizeCompletions would change text.
func HasDoubleCompletion(text string) bool {
	return doubleCompletion.MatchString(text)
}
