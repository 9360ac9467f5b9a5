package http

// CreatePurchase godoc
// @Summary Create a purchase with line items, decrementing stock atomically
// @Tags Purchases
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{delivery_address=string,items=[]object{product_id=int,quantity=int}} true "Purchase request"
// @Success 201 {object} object
// @Failure 422 {object} object{error=string,product_ids=[]int}
// @Router /purchases [post]
func (h *PurchaseHandler) CreatePurchaseDoc() {}

// CancelPurchase godoc
// @Summary Cancel a purchase and restore its stock
// @Tags Purchases
// @Security BearerAuth
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} object
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /purchases/{id}/cancel [post]
func (h *PurchaseHandler) CancelPurchaseDoc() {}

// DeletePurchase godoc
// @Summary Hard-delete a purchase without restoring stock (admin)
// @Tags Purchases
// @Security BearerAuth
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /admin/purchases/{id} [delete]
func (h *PurchaseHandler) DeletePurchaseDoc() {}
