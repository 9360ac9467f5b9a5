package http

// Register godoc
// @Summary Register a customer account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{first_name=string,last_name=string,email=string,password=string} true "Registration data"
// @Success 201 {object} object
// @Failure 409 {object} object{error=string}
// @Router /auth/register [post]
func (h *CustomerHandler) RegisterDoc() {}

// Login godoc
// @Summary Log in and receive a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} object{token=string}
// @Failure 401 {object} object{error=string}
// @Router /auth/login [post]
func (h *CustomerHandler) LoginDoc() {}

// GetProfile godoc
// @Summary Get the authenticated customer profile
// @Tags Customers
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object
// @Router /customers/me [get]
func (h *CustomerHandler) GetProfileDoc() {}
