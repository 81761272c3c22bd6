package runnerdb

import (
	"encoding/binary"
	"log/slog"
	"os"

	"github.com/dvoa-timing/runnerdb/internal/metrics"
	"github.com/dvoa-timing/runnerdb/internal/record"
)

// loadFile reads the whole database file at path and rebuilds the index.
//
// The first 4 bytes are sniffed as a little-endian int32; a known version
// marker means the file starts with a 12-byte header (marker plus two
// unused date/time fields) and slot iteration begins at offset 12,
// otherwise at offset 0. A trailing partial slot is ignored by the floor
// division.
//
// Decoding is fault-isolated per slot: a slot that cannot be decoded is
// logged, counted and skipped, never aborting the load. Tombstoned and
// blank-name slots are skipped silently. Only a file that cannot be read
// at all is an error; zero valid records is a valid empty index.
func loadFile(path string, log *slog.Logger) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	start := 0
	if len(data) >= 4 && record.IsVersionMarker(int32(binary.LittleEndian.Uint32(data[:4]))) {
		start = record.HeaderSize
	}

	idx := NewIndex()
	entryCount := 0
	if len(data) > start {
		entryCount = (len(data) - start) / record.SlotSize
	}

	faults := 0
	for i := 0; i < entryCount; i++ {
		off := start + i*record.SlotSize
		r, ok, err := record.Decode(data[off : off+record.SlotSize])
		if err != nil {
			faults++
			metrics.DecodeFaultsTotal.Inc()
			log.Warn("skipping undecodable slot", "slot", i, "offset", off, "error", err)
			continue
		}
		if !ok || r.Removed {
			continue
		}
		idx.Put(r)
	}

	log.Info("runner database loaded",
		"path", path,
		"slots", entryCount,
		"runners", idx.Len(),
		"decode_faults", faults,
		"header", start > 0,
	)

	return idx, nil
}
