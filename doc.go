// Package tagscore scores candidate items for a user by how well their
// TF-IDF tag vectors match the user's taste profile.
//
// A profile is aggregated from the user's explicit ratings, either by
// summing the vectors of liked items (PolicyThreshold) or by weighting
// every rated item by its mean-centered rating (PolicyWeighted). Each
// candidate is scored by cosine similarity against that profile.
//
//	client, _ := tagscore.New(ctx,
//	    tagscore.WithValkey("localhost:6379", ""),
//	    tagscore.WithPolicy(tagscore.PolicyWeighted),
//	    tagscore.WithVectorCache(100_000, time.Hour),
//	)
//	defer client.Close()
//	res, _ := client.Score(ctx, 42, []int64{1, 2, 3})
//	for _, it := range res.Ranked(10) {
//	    fmt.Println(it.ItemID, it.Score)
//	}
//
// Items that cannot be scored (no tag vector, zero-magnitude vector) are
// not errors: they are reported by Result.Omitted.
package tagscore
