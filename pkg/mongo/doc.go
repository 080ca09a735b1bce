// Package mongo connects to MongoDB with retries and exposes helpers shared
// by the Mongo backed stores.
//
//	cfg := config.MustLoad[mongo.Config]()
//	db, err := mongo.ConnectDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	probe := mongo.Healthcheck(db.Client())
package mongo
