// Package sheets reads the structure of the spreadsheet a script project is
// bound to and checks it against the sheets the scripts expect to exist.
package sheets
