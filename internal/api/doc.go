// Package api exposes the scheduler over a small JSON HTTP interface so a
// labeling UI can drive annotation sessions.
//
// Endpoints:
//
//	GET  /api/next?split=NAME   next unlabeled item, or 410 when the split is exhausted
//	POST /api/submit            {"item_id": N, "label": "..."}; 204 on success
//	GET  /api/progress?split=   labeled/total counts
//	GET  /api/splits            every split with its progress
//
// Every response carries an X-Request-ID header, and the same id is attached
// to the request's log lines. The adapter performs no authentication.
package api
