// Package statspb holds the wire-level message shapes exchanged by
// statsservice, built from the well-known protobuf types
// (structpb.Struct, timestamppb.Timestamp) rather than from a
// protoc-generated .pb.go: this module's build does not run protoc, so
// a hand-written message type built on the already-compiled well-known
// types is the way to actually exercise google.golang.org/protobuf
// without fabricating a generated file nothing produced.
package statspb

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Snapshot is a point-in-time view of one hazptr Global's activity,
// reported over statsservice.
type Snapshot struct {
	CellsTotal      uint64
	// CellsReserved counts cells currently publishing a protected
	// address; cells that are claimed but protect nothing are not counted.
	CellsReserved   uint64
	RetiredPending  uint64
	AbandonedNodes  uint64
	ScanThreshold   uint64
	CountMode       string
	CollectedAt     time.Time
}

// ToStruct encodes s as a structpb.Struct, the payload type carried by
// both the GetStats request (empty) and response messages.
func ToStruct(s Snapshot) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"cells_total":     float64(s.CellsTotal),
		"cells_reserved":  float64(s.CellsReserved),
		"retired_pending": float64(s.RetiredPending),
		"abandoned_nodes": float64(s.AbandonedNodes),
		"scan_threshold":  float64(s.ScanThreshold),
		"count_mode":      s.CountMode,
		"collected_at":    timestamppb.New(s.CollectedAt).AsTime().Format(time.RFC3339Nano),
	})
}

// FromStruct decodes a structpb.Struct produced by ToStruct back into a
// Snapshot.
func FromStruct(st *structpb.Struct) (Snapshot, error) {
	fields := st.GetFields()

	collectedAt, err := time.Parse(time.RFC3339Nano, fields["collected_at"].GetStringValue())
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		CellsTotal:     uint64(fields["cells_total"].GetNumberValue()),
		CellsReserved:  uint64(fields["cells_reserved"].GetNumberValue()),
		RetiredPending: uint64(fields["retired_pending"].GetNumberValue()),
		AbandonedNodes: uint64(fields["abandoned_nodes"].GetNumberValue()),
		ScanThreshold:  uint64(fields["scan_threshold"].GetNumberValue()),
		CountMode:      fields["count_mode"].GetStringValue(),
		CollectedAt:    collectedAt,
	}, nil
}
