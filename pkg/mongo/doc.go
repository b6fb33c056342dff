// Package mongo connects the official MongoDB v2 driver with retries and
// classifies driver errors for repository code.
//
//	db, err := mongo.Database(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	accounts, err := mongostore.NewAccounts(ctx, db)
package mongo
