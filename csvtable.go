// # CSVTable: Random Access to Regular Delimited Files
//
// CSVTable loads a delimited text file into memory, checks that it is "regular" (every line carries the same number of separators) and serves indexed reads of whole lines and single fields.
//
// # Features
//
// - One-shot loading via `Open` (path) or `Parse` (any `io.Reader`), accepting `\n`, `\r\n` and `\r` line endings.
// - Single-pass consistency scan exposed through `Table.IsValid`, `Table.LineCount` and `Table.FieldCount`.
// - Naive splitting on a single-byte separator; no quoting or escaping is interpreted.
// - Distinct sentinel errors (`ErrEmptyContent`, `ErrRowOutOfRange`, `ErrFieldOutOfRange`, `ErrInvalidSeparator`, `ErrFileUnavailable`) and a `RangeError` carrying the offending index.
// - A buffered `Writer` that refuses fields which would break the regular layout, used by `Table.WriteTo`.
//
// # Getting Started
//
//	t, err := csvtable.Open("inventory.csv", csvtable.WithSeparator(';'))
//	if err != nil {
//		return err
//	}
//	if !t.IsValid() {
//		return fmt.Errorf("%s is not a regular file", t.Path())
//	}
//	name, err := t.Field(1, 0)
//
// A Table is safe for concurrent reads. SetSeparator rescans the loaded lines and must not run alongside readers.
package csvtable
