// Package report renders a mention table as a CSV file, a results summary
// and an ASCII histogram.
//
// The CSV has two columns, "Username" and "Number of Mentions", with rows in
// the order usernames were first seen:
//
//	Username,Number of Mentions
//	alice,2
//	bob,1
//
// SaveCSV writes through a temporary file and an atomic rename.
package report
