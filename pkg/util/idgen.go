package util

import (
	"sync"

	snowflake "github.com/yockii/snowflake_ext"
)

var (
	idGenerator *snowflake.Worker
	idOnce      sync.Once
)

// InitNode sets up the id generator for this node. Call it before NewID.
func InitNode(nodeID uint64) error {
	var err error
	idGenerator, err = snowflake.NewSnowflake(nodeID)
	if err != nil {
		return err
	}
	return nil
}

// NewID returns a new snowflake id. A generator for node 1 is created when
// InitNode was never called.
func NewID() uint64 {
	idOnce.Do(func() {
		if idGenerator == nil {
			_ = InitNode(1)
		}
	})
	return idGenerator.NextId()
}
