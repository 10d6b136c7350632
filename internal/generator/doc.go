// Package generator writes generated files with conflict resolution and
// all-or-nothing commits.
//
// Operations are validated first. Validation reads the destination, decides
// whether to create, overwrite, skip or leave it unchanged, and consults a
// Resolver when an existing file differs. Only when every operation validates
// are the writes staged into a Transaction:
//
//	tx := generator.NewTransaction(fs)
//	tx.AddFile("src/tx.rs", txSrc, 0644)
//	tx.AddFile("src/state.rs", stateSrc, 0644)
//
//	if err := tx.Commit(); err != nil {
//	    // files that existed are restored, new files removed
//	    return err
//	}
package generator
