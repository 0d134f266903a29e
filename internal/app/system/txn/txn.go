// Package txn wraps multi-document writes in a MongoDB transaction when the
// deployment supports one (replica set / sharded cluster), and falls back to
// plain sequential writes on standalone servers.
//
// The fallback matters: operations that propagate ledger changes into the
// users collection touch several documents, and on a standalone server a
// crash mid-operation can leave them out of sync. The assignments sync
// (repair) operation exists as the compensating action for exactly that case.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn transactionally when possible. If the server rejects the
// transaction as unsupported, fn is re-run once outside a transaction.
// Errors returned by fn are passed through unchanged.
func Run(ctx context.Context, client *mongo.Client, logger *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logger.Debug("sessions unsupported; running without transaction")
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logger.Warn("transactions unsupported on this deployment; falling back to sequential writes",
			zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Transaction-unsupported server error codes:
// 20 IllegalOperation variants ("Transaction numbers are only allowed on a
// replica set member"), 51 IllegalOperation, 263 OperationNotSupportedInTransaction.
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions (standalone mongod, old DocumentDB, etc.).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}
	// Some drivers/proxies only surface text. Match conservative keyword pairs.
	s := strings.ToLower(err.Error())
	has := func(sub string) bool { return strings.Contains(s, sub) }
	switch {
	case has("transaction") && has("replica set"):
		return true
	case has("session") && has("not supported"):
		return true
	case has("transaction") && has("session"):
		return true
	case has("illegal operation") && has("transaction"):
		return true
	}
	return false
}
