package model

import (
	"encoding/json"
	"testing"
)

// Downstream consumers parse these payloads by key; the encoded form must not
// drift across releases.
func TestEventPayloadEncoding(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{
			name: "mint",
			data: MintEventData{Sender: "0xa1", AmountA: "1000000", AmountB: "4000000"},
			want: `{"sender":"0xa1","amount_a":"1000000","amount_b":"4000000"}`,
		},
		{
			name: "burn",
			data: BurnEventData{Sender: "0xa1", AmountA: "999500", AmountB: "3998000", To: "0xb1"},
			want: `{"sender":"0xa1","amount_a":"999500","amount_b":"3998000","to":"0xb1"}`,
		},
		{
			name: "swap",
			data: SwapEventData{Sender: "0xa1", AmountAIn: "100000", AmountBIn: "0", AmountAOut: "0", AmountBOut: "362809", To: "0xb1"},
			want: `{"sender":"0xa1","amount_a_in":"100000","amount_b_in":"0","amount_a_out":"0","amount_b_out":"362809","to":"0xb1"}`,
		},
		{
			name: "sync",
			data: SyncEventData{ReserveA: "1099750", ReserveB: "3637191"},
			want: `{"reserve_a":"1099750","reserve_b":"3637191"}`,
		},
	}

	for _, tt := range tests {
		got, err := json.Marshal(tt.data)
		if err != nil {
			t.Fatalf("%s: marshal failed: %v", tt.name, err)
		}
		if string(got) != tt.want {
			t.Fatalf("%s: encoded %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestEventRecordEnvelope(t *testing.T) {
	record := EventRecord{
		Seq:       7,
		Pool:      "0xd1",
		Name:      EventSwap,
		Timestamp: 1_700_000_000,
		Data:      json.RawMessage(`{"sender":"0xa1"}`),
	}
	got, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"seq":7,"pool":"0xd1","name":"Swap","timestamp":1700000000,"data":{"sender":"0xa1"}}`
	if string(got) != want {
		t.Fatalf("encoded %s, want %s", got, want)
	}

	var back EventRecord
	if err := json.Unmarshal(got, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.Seq != record.Seq || back.Name != record.Name || string(back.Data) != string(record.Data) {
		t.Fatalf("round trip changed record: %+v", back)
	}
}
