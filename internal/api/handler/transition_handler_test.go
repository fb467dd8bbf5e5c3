package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/orderdesk/orderdesk/internal/core/ports"
)

type stubDispatcher struct {
	single []ports.StatusChangeInput
	batch  []ports.StatusChangeInput
}

func (d *stubDispatcher) Enqueue(change ports.StatusChangeInput) {
	d.single = append(d.single, change)
}

func (d *stubDispatcher) EnqueueBatch(changes []ports.StatusChangeInput) {
	d.batch = append(d.batch, changes...)
}

func newTransitionHandler(d *stubDispatcher) *TransitionHandler {
	h := NewTransitionHandler(d)
	h.now = func() time.Time { return handlerNow }
	return h
}

func TestTransitionHandler_Receive(t *testing.T) {
	e := newEcho()
	d := &stubDispatcher{}
	c, rec := newContext(e, http.MethodPost, "/v1/orders/transitions", `{"order_id":3,"status":"closed"}`)

	if err := newTransitionHandler(d).Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(d.single) != 1 {
		t.Fatalf("expected one queued change, got %d", len(d.single))
	}
	got := d.single[0]
	if got.OrderID != 3 || got.Status != "closed" || got.RequestedBy != "alice" {
		t.Errorf("unexpected change: %+v", got)
	}
	if !got.RequestedAt.Equal(handlerNow) {
		t.Errorf("expected requested_at to default to now, got %v", got.RequestedAt)
	}
	if got.ClientStamped {
		t.Error("a defaulted timestamp must not be marked as caller supplied")
	}
}

func TestTransitionHandler_Receive_KeepsClientTimestamp(t *testing.T) {
	e := newEcho()
	d := &stubDispatcher{}
	c, _ := newContext(e, http.MethodPost, "/v1/orders/transitions",
		`{"order_id":3,"status":"open","requested_at":"2024-03-14T08:00:00-03:00"}`)

	if err := newTransitionHandler(d).Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	want := time.Date(2024, 3, 14, 11, 0, 0, 0, time.UTC)
	if !d.single[0].RequestedAt.Equal(want) || d.single[0].RequestedAt.Location() != time.UTC {
		t.Errorf("expected %v in UTC, got %v", want, d.single[0].RequestedAt)
	}
	if !d.single[0].ClientStamped {
		t.Error("expected the change to be marked as caller stamped")
	}
}

func TestTransitionHandler_Receive_Invalid(t *testing.T) {
	e := newEcho()
	d := &stubDispatcher{}
	c, _ := newContext(e, http.MethodPost, "/v1/orders/transitions", `{"order_id":3,"status":"archived"}`)

	err := newTransitionHandler(d).Receive(c)

	if code := httpStatus(t, err); code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", code)
	}
	if len(d.single) != 0 {
		t.Error("invalid change must not be queued")
	}
}

func TestTransitionHandler_ReceiveBatch(t *testing.T) {
	e := newEcho()
	d := &stubDispatcher{}
	body := `[{"order_id":1,"status":"closed"},{"order_id":2,"status":"unresolved"}]`
	c, rec := newContext(e, http.MethodPost, "/v1/orders/transitions/batch", body)

	if err := newTransitionHandler(d).ReceiveBatch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var resp acceptedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 2 || len(d.batch) != 2 {
		t.Errorf("expected 2 queued, got count=%d queued=%d", resp.Count, len(d.batch))
	}
}

func TestTransitionHandler_ReceiveBatch_Empty(t *testing.T) {
	e := newEcho()
	c, _ := newContext(e, http.MethodPost, "/v1/orders/transitions/batch", `[]`)

	err := newTransitionHandler(&stubDispatcher{}).ReceiveBatch(c)

	if code := httpStatus(t, err); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestTransitionHandler_ReceiveBatch_OneInvalidRejectsAll(t *testing.T) {
	e := newEcho()
	d := &stubDispatcher{}
	body := `[{"order_id":1,"status":"closed"},{"order_id":0,"status":"open"}]`
	c, _ := newContext(e, http.MethodPost, "/v1/orders/transitions/batch", body)

	err := newTransitionHandler(d).ReceiveBatch(c)

	if code := httpStatus(t, err); code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", code)
	}
	if len(d.batch) != 0 {
		t.Error("no change may be queued when one is invalid")
	}
}
