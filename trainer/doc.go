// Package trainer decodes trainer rosters from the paired properties and
// party archives and projects them into fixed-width CSV rows.
//
// # Records
//
// Each trainer has a 20-byte properties record and a party record. The party
// record holds PartySize members whose width (the stride) is computed from
// two flag bits in the properties record:
//
//	flags  moves  items  stride
//	0x00   no     no      8
//	0x01   yes    no     16
//	0x02   no     yes    10
//	0x03   yes    yes    18
//
// Schema.Plan lists the member fields in order; decoding walks that plan
// with a cursor and checks the consumed byte counts per member and per record.
//
// # Trailing bytes
//
// Party records may carry bytes beyond PartySize*stride. These are never
// decoded as members. ClassifyTrailing labels them as alignment padding,
// phantom records or an irregular tail, and InspectAlignmentRegion checks
// the bytes up to the next 4-byte boundary. Both only write diagnostics.
//
// # Failure policy
//
// Any structural violation (unsupported flags, party size out of range,
// short party record, sentinel mismatch) is fatal for the whole roster.
// Index 0 is a sentinel that is validated but never projected.
package trainer
