package selling

import (
	"context"
	"errors"
	"io"
	"sync"

	"unimarket-backend/internal/application/catalog"
	"unimarket-backend/internal/application/uploads"
	"unimarket-backend/internal/domain"

	"github.com/google/uuid"
)

// State is the authoring flow position.
type State string

const (
	StateIdle       State = "idle"
	StateUploading  State = "uploading"
	StatePersisting State = "persisting"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

var (
	ErrNotSeller    = errors.New("You need to onboard with Stripe to become a seller")
	ErrUploadFailed = errors.New("upload failed")
	ErrBusy         = errors.New("A listing is already being published")
)

// Seller identifies the publishing identity; Eligible mirrors the profile's
// seller flag.
type Seller struct {
	ID       string
	Name     string
	Email    string
	Eligible bool
}

// ListingForm carries the authoring form fields.
type ListingForm struct {
	Title         string
	Price         float64
	Description   string
	Location      string
	Category      string
	Condition     string
	ConditionNote string
}

// Flow publishes one listing at a time per seller: image upload first, then
// the document write. The image is never referenced by a document unless the
// upload succeeded, and no document is written when the upload fails. The
// busy-guard is keyed by seller id, so concurrent publishes by different
// sellers proceed independently.
type Flow struct {
	Catalog *catalog.Service
	Uploads *uploads.Service

	mu       sync.Mutex
	inflight map[string]State
}

// State returns the seller's current flow position (Idle between publishes).
func (f *Flow) State(sellerID string) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.inflight[sellerID]; ok {
		return s
	}
	return StateIdle
}

func (f *Flow) setState(sellerID string, s State) {
	f.mu.Lock()
	if f.inflight == nil {
		f.inflight = make(map[string]State)
	}
	f.inflight[sellerID] = s
	f.mu.Unlock()
}

func (f *Flow) reset(sellerID string) {
	f.mu.Lock()
	delete(f.inflight, sellerID)
	f.mu.Unlock()
}

// begin moves the seller Idle -> Uploading; a publish already in progress for
// the same seller is refused so a double submit cannot interleave. Other
// sellers' flows are unaffected.
func (f *Flow) begin(sellerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.inflight[sellerID]; s == StateUploading || s == StatePersisting {
		return ErrBusy
	}
	if f.inflight == nil {
		f.inflight = make(map[string]State)
	}
	f.inflight[sellerID] = StateUploading
	return nil
}

// Publish runs the whole flow for one listing and resets the seller's flow
// to Idle afterwards.
func (f *Flow) Publish(ctx context.Context, seller Seller, form ListingForm, imageName string, image io.Reader) (*domain.Product, error) {
	if !seller.Eligible {
		return nil, ErrNotSeller
	}
	if err := f.begin(seller.ID); err != nil {
		return nil, err
	}
	defer f.reset(seller.ID)

	uploaded, err := f.Uploads.UploadImage(ctx, imageName, image)
	if err != nil {
		f.setState(seller.ID, StateFailed)
		return nil, ErrUploadFailed
	}

	f.setState(seller.ID, StatePersisting)
	ownerID, err := uuid.Parse(seller.ID)
	if err != nil {
		f.setState(seller.ID, StateFailed)
		return nil, err
	}
	product, err := f.Catalog.Create(ctx, catalog.CreateInput{
		Title:         form.Title,
		Price:         form.Price,
		Description:   form.Description,
		ImageURL:      uploaded.URL,
		Location:      form.Location,
		Category:      form.Category,
		Condition:     form.Condition,
		ConditionNote: form.ConditionNote,
		OwnerID:       ownerID,
		OwnerName:     seller.Name,
		OwnerEmail:    seller.Email,
	})
	if err != nil {
		f.setState(seller.ID, StateFailed)
		return nil, err
	}

	f.setState(seller.ID, StateDone)
	return product, nil
}
