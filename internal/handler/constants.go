package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteSignup is the signup route.
	RouteSignup = "/signup"
	// RouteAdminLogin is the admin login route.
	RouteAdminLogin = "/admin-login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteBlog is the material detail prefix.
	RouteBlog = "/blog"
	// RouteCreate is the create material route.
	RouteCreate = "/create"
	// RouteEdit is the edit material route pattern.
	RouteEdit = "/edit/{id}"
	// RouteProfile is the profile route.
	RouteProfile = "/profile"
	// RouteAdmin is the admin dashboard route.
	RouteAdmin = "/admin"
	// RouteMedia is the media proxy prefix.
	RouteMedia = "/media"
	// RouteHealth is the health check route.
	RouteHealth = "/health"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixLike is the like toggle suffix.
	RouteSuffixLike = "/like"
	// RouteSuffixComment is the add comment suffix.
	RouteSuffixComment = "/comment"
	// RouteSuffixPassword is the password change suffix.
	RouteSuffixPassword = "/password"
)

const (
	redirectLogin          = RouteLogin
	redirectAdmin          = RouteAdmin
	redirectAdminMaterials = RouteAdmin + "?tab=" + tabMaterials
	redirectAdminUsers     = RouteAdmin + "?tab=" + tabUsers
	redirectProfile        = RouteProfile
	redirectBlogID         = RouteBlog + "/%s"
)

// Admin dashboard tabs.
const (
	tabDashboard = "dashboard"
	tabMaterials = "materials"
	tabUsers     = "users"
	tabActivity  = "activity"
)

// Form values.
const (
	formConfirm    = "confirm"
	formConfirmYes = "yes"
	formAction     = "action"
	actionPreview  = "preview"
)

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
