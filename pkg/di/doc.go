// Package di wires the query decorators from a single configuration, as
// loaded by internal/config for the querydemo command.
//
// A Container owns one logger, one query cache, one database opener and the
// scope built on it. Pipelines created with NewQuery share that cache, so two
// call sites issuing the same SQL text read the same entry:
//
//	cfg, _ := config.Load(config.Options{})
//	container, err := di.NewContainer(cfg)
//	if err != nil {
//		return err
//	}
//	defer container.Close()
//
//	fetch := di.NewQuery(container, querydecorator.FetchAll)
//	rows, err := fetch(ctx, querydecorator.Args("SELECT * FROM users"))
package di
