package http

// ListProducts godoc
// @Summary List products
// @Description Get catalog products with pagination and optional category filter
// @Tags Products
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Param category query string false "Category"
// @Success 200 {array} object
// @Router /products [get]
func (h *ProductHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object
// @Failure 404 {object} object{error=string}
// @Router /products/{id} [get]
func (h *ProductHandler) GetProductDoc() {}

// CreateProduct godoc
// @Summary Create product
// @Description Create a catalog product (admin only)
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,price_cents=int,quantity=int,size=string,gender=string,category=string} true "Product data"
// @Success 201 {object} object
// @Failure 400 {object} object{error=string}
// @Router /products [post]
func (h *ProductHandler) CreateProductDoc() {}

// UpdateStock godoc
// @Summary Overwrite product stock
// @Description Set the available quantity of a product (admin only)
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{quantity=int} true "New quantity"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /products/{id}/stock [patch]
func (h *ProductHandler) UpdateStockDoc() {}
