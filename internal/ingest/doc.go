// Package ingest turns a raw pass-dump log into a grouped ir.Buffer.
//
// The log is a sequence of records separated by "***". Each record holds
// four "#"-separated fields:
//
//	*** <header> # <stage> # <entity> # <property block>
//
// The property block is line oriented, one "key : value" pair per line. An
// empty block means the entity was not observed (ir.Missing).
//
// Any decoding failure is fatal: the aligner never sees a malformed record.
package ingest
