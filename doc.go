// Package appdex embeds the appdex catalog query engine: a compiler that turns
// search strings and category state into index queries, a result filter driven
// by the local package cache, and an engine that estimates, orders and merges
// matches from an embedded full-text index.
//
// # Search options
//
//	client, _ := appdex.Open(ctx,
//	    appdex.WithCatalog("catalog.yaml"),
//	    appdex.WithCategories("categories.yaml"),
//	    appdex.WithPackageSnapshot("packages.yaml"),
//	)
//	defer client.Close()
//	res, _ := client.Search(ctx, appdex.SearchOptions{Terms: "image editor", Limit: 20})
//
// # Fluent builder
//
//	res, _ := client.Query().Terms("gimp").Sort(appdex.SortTopRated).Installed().Do(ctx)
//
// # Asynchronous search
//
//	p, _ := client.Query().Category("Graphics").Go(ctx)
//	res, err := p.Wait(ctx)
//
// A Session keeps only the most recent search of an interactive caller:
//
//	s := client.NewSession(func(o appdex.Outcome) { render(o.Result) })
//	s.Submit(ctx, appdex.SearchOptions{Terms: "ink"})
//	s.Submit(ctx, appdex.SearchOptions{Terms: "inkscape"}) // the first result is dropped
package appdex
