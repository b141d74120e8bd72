// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"fmt"

	"github.com/gofrs/flock"
)

// Lock takes an exclusive lock on <dbPath>.lock. It fails at once if another
// process holds it. The returned function releases the lock.
func Lock(dbPath string) (func() error, error) {
	fl := flock.New(dbPath + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking library %s: %w", dbPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("library %s is in use by another run", dbPath)
	}
	return fl.Unlock, nil
}
