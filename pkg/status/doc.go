/*
Package status tracks what happened to each file during a cachebust run.

	            +-------------+
	            |   Tracker   |
	            | (Outcomes)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	| Formatter |           | zerolog |
	|  (Text)   |           |  (Ctx)  |
	+-----------+           +---------+

🎯 Purpose:
- Records one FileInfo per file and stage (renamed, rewritten, unchanged,
  skipped, binary)
- Reports progress for each operation
- Keeps presentation (FileFormatter) apart from bookkeeping

🔄 Flow:
1. An operation calls StartOperation with the number of files
2. Every file gets a Track call with its outcome
3. FinishOperation logs the totals
4. Callers read Count/Files to build the final summary

🔍 Example:

	tracker := status.NewTracker(nil)
	tracker.StartOperation(ctx, "rename", len(entries))
	tracker.Track(ctx, status.FileInfo{Path: "main.dart.js", Status: status.StatusRenamed})
	tracker.FinishOperation(ctx)
	fmt.Println(tracker.Count(status.StatusRenamed))
*/
package status
