// Package tvguide scrapes basketball airings from a TV guide page with goquery.
//
// Airings of the same fixture on several channels are merged into one record. The
// guide carries no ids, so records use synthetic ids and the source purges its
// matches before each run.
package tvguide
