package models

import (
	"encoding/json"
	"testing"
)

func TestDelayReasonsValueScan(t *testing.T) {
	original := DelayReasons{OntShortage: true, CxDelay: true}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var scanned DelayReasons
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if scanned != original {
		t.Errorf("round trip changed flags: %+v -> %+v", original, scanned)
	}
}

func TestDelayReasonsScanNil(t *testing.T) {
	reasons := DelayReasons{Nokia: true}
	if err := reasons.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if reasons != (DelayReasons{}) {
		t.Errorf("scan nil = %+v, expected zero flags", reasons)
	}
}

// Absent flags in the stored document read as false rather than erroring.
func TestDelayReasonsPartialDocument(t *testing.T) {
	var reasons DelayReasons
	if err := reasons.Scan([]byte(`{"polePending":true}`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !reasons.PolePending {
		t.Errorf("polePending not set: %+v", reasons)
	}
	if reasons.OntShortage || reasons.StbShortage || reasons.Nokia || reasons.System ||
		reasons.Opmc || reasons.CxDelay || reasons.SameDay {
		t.Errorf("unexpected flags set: %+v", reasons)
	}
}

func TestDelayReasonsJSONOmitsFalse(t *testing.T) {
	data, err := json.Marshal(DelayReasons{SameDay: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"sameDay":true}` {
		t.Errorf("marshal = %s, expected only the set flag", data)
	}
}
