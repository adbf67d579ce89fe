// Package scheduler hands out unlabeled corpus items in a reproducible order
// and records submitted labels.
//
// Each split's schedule is the fixed corpus ordering restricted to that
// split's items. NextItem scans the schedule from a per-split cursor and
// returns the first unlabeled item, so the sequence of items offered for a
// given seed never depends on how many have already been labeled. Labels are
// never removed, which lets the cursor only move forward.
package scheduler
