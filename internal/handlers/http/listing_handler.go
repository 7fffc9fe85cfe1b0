package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/handlers/dto"
	"github.com/rafabene/gearshare-backend/internal/handlers/httpctx"
	"github.com/rafabene/gearshare-backend/internal/services"
)

// ListingHandler lida com requisições HTTP relacionadas a anúncios
type ListingHandler struct {
	listingService *services.ListingService
	logger         ports.Logger
}

// NewListingHandler cria um novo ListingHandler
func NewListingHandler(listingService *services.ListingService, logger ports.Logger) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		logger:         logger,
	}
}

// List enumera anúncios disponíveis visíveis para o chamador
// @Summary      Listar anúncios
// @Tags         listings
// @Produce      json
// @Param        category          query     string  false  "Categoria"
// @Param        merhav            query     string  false  "Merhav"
// @Param        transaction_type  query     string  false  "Tipo de transação"
// @Param        search            query     string  false  "Busca em título e descrição"
// @Success      200               {object}  dto.ListingsResponse
// @Failure      400               {object}  dto.ErrorResponse
// @Router       /api/listings [get]
func (h *ListingHandler) List(c *gin.Context) {
	var query dto.ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	listings, err := h.listingService.List(c.Request.Context(), httpctx.Identity(c), query.ToQuery())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListingsResponse{Listings: dto.ToListingResponses(listings)})
}

// Get busca um anúncio
// @Summary      Detalhe do anúncio
// @Tags         listings
// @Produce      json
// @Param        id   path      string  true  "ID do anúncio"
// @Success      200  {object}  dto.ListingEnvelope
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.Get(c.Request.Context(), httpctx.Identity(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListingEnvelope{Listing: dto.ToListingResponse(listing)})
}

// IncrementView soma uma visualização; falhas não viram erro HTTP
// @Summary      Registrar visualização
// @Tags         listings
// @Produce      json
// @Param        id   path      string  true  "ID do anúncio"
// @Success      200  {object}  dto.ViewResponse
// @Router       /api/listings/{id}/increment-view [post]
func (h *ListingHandler) IncrementView(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if !h.listingService.IncrementViews(c.Request.Context(), id) {
		c.JSON(http.StatusOK, dto.ViewResponse{Success: false, Error: "Failed to increment view"})
		return
	}
	c.JSON(http.StatusOK, dto.ViewResponse{Success: true})
}

// Create publica um anúncio com até duas imagens
// @Summary      Criar anúncio
// @Tags         listings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title             formData  string  true   "Título"
// @Param        description       formData  string  false  "Descrição"
// @Param        category          formData  string  true   "Categoria"
// @Param        transaction_type  formData  string  true   "Tipo de transação"
// @Param        size              formData  string  false  "Tamanho"
// @Param        merhav            formData  string  true   "Merhav"
// @Param        volunteer_only    formData  bool    false  "Somente voluntários"
// @Param        image1            formData  file    false  "Imagem 1"
// @Param        image2            formData  file    false  "Imagem 2"
// @Success      201               {object}  dto.ListingEnvelope
// @Failure      400               {object}  dto.ErrorResponse
// @Failure      403               {object}  dto.ErrorResponse
// @Router       /api/listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	var req dto.CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	files, err := readUploads(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer files.Close()

	listing, err := h.listingService.Create(c.Request.Context(), httpctx.Identity(c), req.ToInput(files.image1, files.image2))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ListingEnvelope{
		Message: dto.T(c, "listing.created"),
		Listing: dto.ToListingResponse(listing),
	})
}

// Update edita um anúncio (dono ou admin)
// @Summary      Editar anúncio
// @Tags         listings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id            path      string  true   "ID do anúncio"
// @Param        removeImage1  formData  bool    false  "Remover imagem 1"
// @Param        removeImage2  formData  bool    false  "Remover imagem 2"
// @Param        image1        formData  file    false  "Nova imagem 1"
// @Param        image2        formData  file    false  "Nova imagem 2"
// @Success      200           {object}  dto.ListingEnvelope
// @Failure      400           {object}  dto.ErrorResponse
// @Failure      403           {object}  dto.ErrorResponse
// @Failure      404           {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [patch]
func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	files, err := readUploads(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer files.Close()

	listing, err := h.listingService.Update(c.Request.Context(), httpctx.Identity(c), id, req.ToChanges(files.image1, files.image2))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListingEnvelope{
		Message: dto.T(c, "listing.updated"),
		Listing: dto.ToListingResponse(listing),
	})
}

// Delete remove um anúncio (dono ou admin)
// @Summary      Remover anúncio
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID do anúncio"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.listingService.Delete(c.Request.Context(), httpctx.Identity(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: dto.T(c, "listing.deleted")})
}

// Mine lista os anúncios do usuário, inclusive indisponíveis
// @Summary      Meus anúncios
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListingsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/listings/my/listings [get]
func (h *ListingHandler) Mine(c *gin.Context) {
	listings, err := h.listingService.ListMine(c.Request.Context(), httpctx.Identity(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListingsResponse{Listings: dto.ToListingResponses(listings)})
}
