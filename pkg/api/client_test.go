package api_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardscan-dev/cardboard/pkg/api"
	"github.com/cardscan-dev/cardboard/pkg/stub"
)

func newBackend(t *testing.T) (*stub.Server, *api.Client) {
	t.Helper()

	backend := stub.NewServer()
	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(ts.Close)

	return backend, api.NewClient(ts.URL)
}

func TestAssignLabel(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	labelID := backend.SeedLabel(api.Label{Name: "Clients", Color: "#0891b2"})
	cardID := backend.SeedCard(api.Card{Name: "Priya Sharma"})

	err := client.AssignLabel(context.Background(), cardID, labelID, "Clients")
	assert.Nil(err)

	card := backend.Card(cardID)
	assert.NotNil(card.LabelID)
	assert.Equal(labelID, *card.LabelID)
	assert.Equal("Clients", *card.LabelName)
}

func TestAssignLabelFailureSurfacesServerMessage(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	cardID := backend.SeedCard(api.Card{Name: "Priya Sharma"})

	err := client.AssignLabel(context.Background(), cardID, 999, "Ghost")
	assert.NotNil(err)
	assert.Equal("Label not found", err.Error())

	var apiErr *api.Error
	assert.ErrorAs(err, &apiErr)
}

func TestRemoveLabel(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	labelID := backend.SeedLabel(api.Label{Name: "Clients"})
	name := "Clients"
	cardID := backend.SeedCard(api.Card{Name: "Dana", LabelID: &labelID, LabelName: &name})

	err := client.RemoveLabel(context.Background(), cardID)
	assert.Nil(err)
	assert.Nil(backend.Card(cardID).LabelID)
}

func TestLabelLifecycle(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	ctx := context.Background()

	err := client.CreateLabel(ctx, "Vendors", "#059669")
	assert.Nil(err)

	labels := backend.Labels()
	assert.Equal(1, len(labels))
	assert.Equal("Vendors", labels[0].Name)

	err = client.UpdateLabel(ctx, labels[0].ID, "Suppliers", "#dc2626")
	assert.Nil(err)
	assert.Equal("Suppliers", backend.Labels()[0].Name)

	err = client.DeleteLabel(ctx, labels[0].ID)
	assert.Nil(err)
	assert.Empty(backend.Labels())
}

func TestCreateLabelRequiresName(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	_, client := newBackend(t)

	err := client.CreateLabel(context.Background(), "", "#0891b2")
	assert.NotNil(err)
	assert.Equal("Label name is required", err.Error())
}

func TestDeleteLabelCascadesToUnsorted(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	labelID := backend.SeedLabel(api.Label{Name: "Clients"})
	name := "Clients"
	cardID := backend.SeedCard(api.Card{Name: "Dana", LabelID: &labelID, LabelName: &name})

	err := client.DeleteLabel(context.Background(), labelID)
	assert.Nil(err)

	card := backend.Card(cardID)
	assert.Nil(card.LabelID)
	assert.Nil(card.LabelName)
}

func TestPreview(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	cardID := backend.SeedCard(api.Card{Name: "Priya Sharma", Company: "Wipro", Country: "IN"})

	card, err := client.Preview(context.Background(), cardID)
	assert.Nil(err)
	assert.Equal("Priya Sharma", card.Name)
	assert.Equal("Wipro", card.Company)

	_, err = client.Preview(context.Background(), 999)
	assert.NotNil(err)
	assert.Equal("Card not found", err.Error())
}

func TestEditCard(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	cardID := backend.SeedCard(api.Card{Name: "Old Name", Company: "Old Co"})

	err := client.EditCard(context.Background(), cardID, api.CardFields{Name: "New Name", Company: "New Co"})
	assert.Nil(err)

	card := backend.Card(cardID)
	assert.Equal("New Name", card.Name)
	assert.Equal("New Co", card.Company)
}

func TestUpdateCardRedetectsCountry(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	cardID := backend.SeedCard(api.Card{Name: "Dana", Company: "Acme Corp", Country: "US"})

	// company changed, no country supplied: the board endpoint re-detects
	err := client.UpdateCard(context.Background(), cardID, api.CardFields{Name: "Dana", Company: "Wipro"})
	assert.Nil(err)
	assert.Equal("IN", backend.Card(cardID).Country)

	// explicit country wins over detection
	err = client.UpdateCard(context.Background(), cardID, api.CardFields{Name: "Dana", Company: "Siemens", Country: "FR"})
	assert.Nil(err)
	assert.Equal("FR", backend.Card(cardID).Country)
}

func TestEditCardTakesFieldsVerbatim(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	cardID := backend.SeedCard(api.Card{Name: "Ken", Company: "Acme Corp", Country: "US"})

	// the preview edit endpoint never re-detects the country
	err := client.EditCard(context.Background(), cardID, api.CardFields{Name: "Ken", Company: "Wipro"})
	assert.Nil(err)
	assert.Equal("US", backend.Card(cardID).Country)
}

func TestDeleteCard(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	cardID := backend.SeedCard(api.Card{Name: "Doomed"})

	err := client.DeleteCard(context.Background(), cardID)
	assert.Nil(err)
	assert.Nil(backend.Card(cardID))
}

func TestCountries(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	_, client := newBackend(t)

	countries, err := client.Countries(context.Background())
	assert.Nil(err)
	assert.Equal(8, len(countries))
	assert.Equal("US", countries[0].Code)
	assert.Equal("🇺🇸", countries[0].Flag)
	assert.Equal("UNKNOWN", countries[len(countries)-1].Code)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	_, client := newBackend(t)

	key, err := client.Register(context.Background(), "dana", "dana@acme.example", "hunter22", "demo")
	assert.Nil(err)
	assert.True(strings.HasPrefix(key, "bck_"))

	_, err = client.Register(context.Background(), "dana", "", "hunter22", "")
	assert.NotNil(err)
	assert.Equal("Username, email, and password are required", err.Error())
}

func TestUpload(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	_, client := newBackend(t)

	files := []api.UploadFile{
		{Name: "front.png", ContentType: "image/png", Reader: strings.NewReader("png bytes")},
		{Name: "back.png", ContentType: "image/png", Reader: strings.NewReader("more png bytes")},
	}

	fragment, err := client.Upload(context.Background(), files)
	assert.Nil(err)
	assert.Contains(fragment, "Processed 2 file(s) successfully")

	extractions, err := client.Recent(context.Background())
	assert.Nil(err)
	assert.Equal(2, len(extractions))
	assert.Equal("front.png", extractions[0].Filename)
}

func TestManagePage(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	backend.SeedCard(api.Card{Name: "Priya Sharma", Country: "IN"})

	body, err := client.ManagePage(context.Background())
	assert.Nil(err)

	defer body.Close()

	page, err := io.ReadAll(body)
	assert.Nil(err)
	assert.Contains(string(page), "data-card-data")
	assert.Contains(string(page), "Priya Sharma")
}

func TestDownloadExcel(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	backend, client := newBackend(t)
	backend.SeedCard(api.Card{Name: "Priya Sharma"})

	var buf strings.Builder

	err := client.DownloadExcel(context.Background(), &buf)
	assert.Nil(err)
	assert.Contains(buf.String(), "1 cards")
}
