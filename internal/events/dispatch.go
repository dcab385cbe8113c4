package events

// Handler reacts to plugin events. Each method corresponds to one Kind.
type Handler interface {
	CameraStatus(connected bool)
	LogOut()
	CanPrint(canPrint bool)
	Download(update DownloadUpdate)
	UserLogged()
	UserLoggedOut()
	AstroPrintUserLoggedOut()
	BoxrouterStatus(status string)
	SocketUpdate(update SocketUpdateData)
	Unknown(name string)
}

// Dispatch routes ev to exactly one Handler method. A payload that fails to
// decode is reported and the handler is not called.
func Dispatch(ev Event, h Handler) error {
	switch ev.Kind {
	case CameraStatus:
		connected, err := ev.Bool()
		if err != nil {
			return err
		}
		h.CameraStatus(connected)
	case LogOut:
		h.LogOut()
	case CanPrint:
		canPrint, err := ev.Bool()
		if err != nil {
			return err
		}
		h.CanPrint(canPrint)
	case Download:
		update, err := ev.Download()
		if err != nil {
			return err
		}
		h.Download(update)
	case UserLogged:
		h.UserLogged()
	case UserLoggedOut:
		h.UserLoggedOut()
	case AstroPrintUserLoggedOut:
		h.AstroPrintUserLoggedOut()
	case BoxrouterStatus:
		status, err := ev.Text()
		if err != nil {
			return err
		}
		h.BoxrouterStatus(status)
	case SocketUpdate:
		update, err := ev.SocketUpdate()
		if err != nil {
			return err
		}
		h.SocketUpdate(update)
	default:
		h.Unknown(ev.Name)
	}
	return nil
}
