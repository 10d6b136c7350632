// Package scaffold generates a new transaction type into a project: it checks
// the project root, loads templates, parses fields, runs both patchers and
// writes the two destination files in one transaction.
package scaffold
