package http

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/handlers/dto"
)

func listingFields(title string) map[string]string {
	return map[string]string{
		"title":            title,
		"description":      "Warm and dry",
		"category":         string(entities.CategoryCoats),
		"transaction_type": string(entities.TransactionGive),
		"merhav":           string(entities.MerhavDan),
	}
}

func pngFile(field string) formFile {
	return formFile{field: field, filename: "coat.PNG", contentType: "image/png", content: []byte("\x89PNG fake image")}
}

func titles(listings []dto.ListingResponse) []string {
	out := make([]string, len(listings))
	for i, listing := range listings {
		out[i] = listing.Title
	}
	return out
}

func TestListingHandler_Visibility(t *testing.T) {
	s := newTestServer(t)
	volunteer := s.seedUser("vol", entities.RoleVerifiedVolunteer)
	pending := s.seedUser("pend", entities.RolePendingVolunteer)

	s.seedListing(volunteer.ID, "Public coat", false)
	restricted := s.seedListing(volunteer.ID, "Volunteer boots", true)

	t.Run("anônimo não vê anúncios restritos", func(t *testing.T) {
		w := s.request(http.MethodGet, "/api/listings", nil, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"Public coat"}, titles(decode[dto.ListingsResponse](t, w).Listings))
	})

	t.Run("voluntário pendente também não vê", func(t *testing.T) {
		w := s.request(http.MethodGet, "/api/listings", nil, "", s.token(pending))
		assert.Equal(t, []string{"Public coat"}, titles(decode[dto.ListingsResponse](t, w).Listings))
	})

	t.Run("voluntário verificado vê todos", func(t *testing.T) {
		w := s.request(http.MethodGet, "/api/listings", nil, "", s.token(volunteer))
		assert.ElementsMatch(t, []string{"Public coat", "Volunteer boots"}, titles(decode[dto.ListingsResponse](t, w).Listings))
	})

	t.Run("token inválido na listagem vira anônimo", func(t *testing.T) {
		w := s.request(http.MethodGet, "/api/listings", nil, "", "garbage")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[dto.ListingsResponse](t, w).Listings, 1)
	})

	t.Run("detalhe restrito retorna 403, não 404", func(t *testing.T) {
		w := s.request(http.MethodGet, "/api/listings/"+restricted.ID, nil, "", "")
		requireProblem(t, w, http.StatusForbidden, "This listing is for verified volunteers only")

		w = s.request(http.MethodGet, "/api/listings/"+restricted.ID, nil, "", s.token(volunteer))
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.ListingEnvelope](t, w)
		require.NotNil(t, resp.Listing.Owner)
		assert.Equal(t, volunteer.FullName, resp.Listing.Owner.FullName)
	})

	t.Run("filtros inválidos", func(t *testing.T) {
		w := s.request(http.MethodGet, "/api/listings?category=spaceships", nil, "", "")
		requireProblem(t, w, http.StatusBadRequest, "Validation failed")
	})

	t.Run("id que não é UUID", func(t *testing.T) {
		w := s.request(http.MethodGet, "/api/listings/not-a-uuid", nil, "", "")
		requireProblem(t, w, http.StatusBadRequest, "Invalid identifier")
	})

	t.Run("anúncio inexistente", func(t *testing.T) {
		w := s.request(http.MethodGet, "/api/listings/0b6f6d1e-4a3c-4d59-8f2a-7e1d9c3b5a00", nil, "", "")
		requireProblem(t, w, http.StatusNotFound, "Listing not found")
	})
}

func TestListingHandler_IncrementView(t *testing.T) {
	s := newTestServer(t)
	owner := s.seedUser("vol", entities.RoleVerifiedVolunteer)
	listing := s.seedListing(owner.ID, "Sleeping bag", false)

	w := s.request(http.MethodPost, "/api/listings/"+listing.ID+"/increment-view", nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.ViewResponse](t, w).Success)

	found, err := s.listings.FindByID(t.Context(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.Views)

	// falhas não viram erro HTTP
	w = s.request(http.MethodPost, "/api/listings/0b6f6d1e-4a3c-4d59-8f2a-7e1d9c3b5a00/increment-view", nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.ViewResponse](t, w)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestListingHandler_Create(t *testing.T) {
	s := newTestServer(t)
	volunteer := s.seedUser("vol", entities.RoleVerifiedVolunteer)
	regular := s.seedUser("reg", entities.RoleUser)

	t.Run("usuário comum não publica", func(t *testing.T) {
		w := s.multipart(http.MethodPost, "/api/listings", listingFields("Warm coat"), nil, s.token(regular))
		requireProblem(t, w, http.StatusForbidden, "Insufficient permissions")
	})

	t.Run("sem token", func(t *testing.T) {
		w := s.multipart(http.MethodPost, "/api/listings", listingFields("Warm coat"), nil, "")
		requireProblem(t, w, http.StatusUnauthorized, "")
	})

	t.Run("voluntário publica com imagem", func(t *testing.T) {
		w := s.multipart(http.MethodPost, "/api/listings", listingFields("Warm coat"), []formFile{pngFile("image1")}, s.token(volunteer))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decode[dto.ListingEnvelope](t, w)
		assert.Equal(t, "Listing created successfully", resp.Message)
		assert.Equal(t, volunteer.ID, resp.Listing.OwnerID)
		assert.True(t, resp.Listing.IsAvailable)
		assert.Nil(t, resp.Listing.Image2)
		require.NotNil(t, resp.Listing.Image1)
		assert.True(t, strings.HasPrefix(*resp.Listing.Image1, "/images/uploaded/listing-"))
		assert.True(t, strings.HasSuffix(*resp.Listing.Image1, ".png"))

		name := strings.TrimPrefix(*resp.Listing.Image1, "/images/uploaded/")
		content, err := os.ReadFile(filepath.Join(s.imagesDir, name))
		require.NoError(t, err)
		assert.Equal(t, pngFile("image1").content, content)

		// servida pelo diretório estático
		w = s.request(http.MethodGet, *resp.Listing.Image1, nil, "", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("arquivo que não é imagem", func(t *testing.T) {
		file := formFile{field: "image1", filename: "notes.txt", contentType: "text/plain", content: []byte("hello")}
		w := s.multipart(http.MethodPost, "/api/listings", listingFields("Warm coat"), []formFile{file}, s.token(volunteer))
		requireProblem(t, w, http.StatusBadRequest, "Only image files are allowed")
	})

	t.Run("imagem acima do limite", func(t *testing.T) {
		file := pngFile("image2")
		file.content = bytes.Repeat([]byte("x"), 2048)
		w := s.multipart(http.MethodPost, "/api/listings", listingFields("Warm coat"), []formFile{file}, s.token(volunteer))
		requireProblem(t, w, http.StatusBadRequest, "Image exceeds the maximum size")
	})

	t.Run("campos obrigatórios", func(t *testing.T) {
		fields := listingFields("ab")
		delete(fields, "merhav")
		w := s.multipart(http.MethodPost, "/api/listings", fields, nil, s.token(volunteer))
		p := requireProblem(t, w, http.StatusBadRequest, "Validation failed")

		tags := map[string]string{}
		for _, detail := range p.Details {
			tags[detail.Field] = detail.Tag
		}
		assert.Equal(t, "min", tags["title"])
		assert.Equal(t, "required", tags["merhav"])
	})
}

func TestListingHandler_UpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	owner := s.seedUser("owner", entities.RoleVerifiedVolunteer)
	other := s.seedUser("other", entities.RoleVerifiedVolunteer)
	admin := s.seedUser("moshe", entities.RoleAdmin)

	t.Run("outro voluntário não edita", func(t *testing.T) {
		listing := s.seedListing(owner.ID, "Rain jacket", false)
		w := s.multipart(http.MethodPatch, "/api/listings/"+listing.ID, map[string]string{"title": "Mine now"}, nil, s.token(other))
		requireProblem(t, w, http.StatusForbidden, "You can only modify your own resources")
	})

	t.Run("dono edita e marca indisponível", func(t *testing.T) {
		listing := s.seedListing(owner.ID, "Rain jacket", false)
		w := s.multipart(http.MethodPatch, "/api/listings/"+listing.ID, map[string]string{
			"title":        "Rain jacket XL",
			"is_available": "false",
		}, nil, s.token(owner))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[dto.ListingEnvelope](t, w)
		assert.Equal(t, "Rain jacket XL", resp.Listing.Title)
		assert.False(t, resp.Listing.IsAvailable)

		// some da listagem pública, continua em "meus anúncios"
		w = s.request(http.MethodGet, "/api/listings", nil, "", "")
		assert.NotContains(t, titles(decode[dto.ListingsResponse](t, w).Listings), "Rain jacket XL")

		w = s.request(http.MethodGet, "/api/listings/my/listings", nil, "", s.token(owner))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, titles(decode[dto.ListingsResponse](t, w).Listings), "Rain jacket XL")
	})

	t.Run("admin remove anúncio alheio", func(t *testing.T) {
		listing := s.seedListing(owner.ID, "Old boots", false)

		w := s.request(http.MethodDelete, "/api/listings/"+listing.ID, nil, "", s.token(admin))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Listing deleted successfully", decode[dto.MessageResponse](t, w).Message)

		w = s.request(http.MethodGet, "/api/listings/"+listing.ID, nil, "", "")
		requireProblem(t, w, http.StatusNotFound, "Listing not found")
	})

	t.Run("meus anúncios exige login", func(t *testing.T) {
		w := s.request(http.MethodGet, "/api/listings/my/listings", nil, "", "")
		requireProblem(t, w, http.StatusUnauthorized, "")
	})
}
