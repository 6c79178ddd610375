// Package txn runs a unit of work inside a MongoDB transaction when the
// deployment supports one, and runs it directly otherwise.
//
// Standalone mongod servers reject transactions. Development setups are
// usually standalone, production is a replica set, so callers write one
// function and let Run decide.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction. If the server reports that
// transactions are not available, fn is executed again without one using the
// caller's context. fn must therefore be safe to retry from the start.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if log != nil {
			log.Debug("transactions unavailable, running without", zap.Error(err))
		}
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err means the deployment cannot run
// multi-document transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation
			51,  // not a replica set member (older servers)
			263: // OperationNotSupportedInTransaction
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(a, b string) bool {
		return strings.Contains(msg, a) && strings.Contains(msg, b)
	}
	return has("transaction", "replica set") ||
		has("session", "not supported") ||
		has("transaction", "session") ||
		has("illegal", "operation")
}
