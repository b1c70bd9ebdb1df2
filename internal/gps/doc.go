package gps

// Package gps owns the serial link to the GNSS receiver.
//
// It scans the receiver's output line by line, feeds each sentence into an
// nmea.Fix, and republishes the fused snapshot through an atomic value. The
// reader goroutine is the only writer of the Fix, which satisfies the fix
// state's serialized-access contract; everyone else sees immutable snapshots.
