/*
Package operation wires the rename and rewrite stages into a pipeline.

	+-------------+      +-------------+
	|   Rename    | ---> |   Rewrite   |
	| (manifest)  |      | (references)|
	+-------------+      +-------------+

🎯 Purpose:
- Runs the stages strictly in order, stopping at the first error
- Hands the manifest produced by rename to rewrite
- Collects per-file outcomes into a Result

🔄 Flow:
1. Rename snapshots the tree and fingerprints every non-skipped file
2. Rewrite builds substitution rules from the complete manifest
3. Rewrite replaces references in every non-skipped text file
4. The tracker counts what happened to each file

⚡ Guarantees:
- Rewrite never starts before the manifest is complete
- A failure aborts the run without rolling back finished renames

🔍 Example:

	res, err := operation.Pipeline(ctx, operation.Options{
		Root:         "./build/web",
		ReplaceBases: []string{"", "assets"},
		Expander:     expand.Default(),
	})
*/
package operation
