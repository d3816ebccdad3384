/*
Package app turns the fundpool extensions into an ABCI application.

It provides the router that dispatches messages by path, the decorator
chain every transaction passes through, the commit store that keeps
separate caches for checking and delivering transactions, and the genesis
loading code.

A typical stack looks like this:

	router := app.NewRouter()
	pool.RegisterRoutes(router, auth, cashCtrl)

	handler := app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnCheck().OnDeliver(),
		sigs.NewDecorator(),
	).WithHandler(router)

	store, err := app.NewStoreApp("fundpool", kv, context.Background())
	base := app.NewBaseApp(store, decodeTx, handler, false)
*/
package app
