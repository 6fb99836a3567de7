package resource

import (
	"encoding/json"
	"testing"
)

func TestExecutionArgsAddInput(t *testing.T) {
	args := NewExecutionArgs(ID[Script]("script/abc123"))
	if err := args.AddInput("resource", "dataset/def456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := args.AddInput("n", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// WhizzML cannot take null inputs, so nil values are skipped entirely.
	if err := args.AddInput("skipped", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args.AddOutput("result")

	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"script":"script/abc123","inputs":[["resource","dataset/def456"],["n",3]],"outputs":["result"]}`
	if string(raw) != want {
		t.Fatalf("got %s, want %s", raw, want)
	}
}

func TestOutputDecodesBothWireForms(t *testing.T) {
	// Before the value is computed, BigML serializes just the name.
	var out Output
	if err := json.Unmarshal([]byte(`"dataset"`), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Name != "dataset" || out.Value != nil {
		t.Fatalf("unexpected output: %+v", out)
	}

	// Once computed, it becomes a [name, value, type] triple.
	if err := json.Unmarshal([]byte(`["n_times_2", 6, "number"]`), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Name != "n_times_2" || string(out.Value) != "6" || out.Type != "number" {
		t.Fatalf("unexpected output: %+v", out)
	}

	if err := json.Unmarshal([]byte(`{}`), &out); err == nil {
		t.Fatal("expected an error for an object payload")
	}
}

func TestExecutionDataOutputLookup(t *testing.T) {
	payload := `{"outputs": ["pending", ["done", 42, "number"]]}`
	var data ExecutionData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := data.Output("pending"); ok {
		t.Fatal("pending output must not resolve to a value")
	}
	v, ok := data.Output("done")
	if !ok || string(v) != "42" {
		t.Fatalf("got %s (ok=%v), want 42", v, ok)
	}
	if _, ok := data.Output("missing"); ok {
		t.Fatal("missing output must not resolve")
	}
}

func TestExecutionDecodesResourcePayload(t *testing.T) {
	payload := `{
		"resource": "execution/624d9f4f2f1f8a0a5b000001",
		"name": "my run",
		"status": {"code": 5, "message": "The execution has been created"},
		"execution": {"outputs": [["x", 1, "number"]], "result": [1]},
		"tags": ["batch"]
	}`
	var exec Execution
	if err := json.Unmarshal([]byte(payload), &exec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.ResourceID() != "execution/624d9f4f2f1f8a0a5b000001" {
		t.Fatalf("id=%q", exec.ResourceID())
	}
	if !exec.ResourceStatus().Code.IsReady() {
		t.Fatalf("status=%+v, want ready", exec.Status)
	}
	if len(exec.Execution.Outputs) != 1 || exec.Execution.Outputs[0].Name != "x" {
		t.Fatalf("outputs=%+v", exec.Execution.Outputs)
	}
}
