package viewmodels

type Login struct {
	BaseViewModel

	Passcode string
	Redirect string
}
