// Package notify es el servicio de notificaciones de la aplicación: un
// pub-sub explícito con ciclo de vida definido (se crea una vez en main, los
// suscriptores se registran y desregistran). Reemplaza la lista global de
// listeners que tenía la versión anterior y que filtraba estado entre tests.
package notify

import "sync"

// Level clasifica la notificación para la UI.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Event es una notificación puntual (equivalente a un toast).
type Event struct {
	Level   Level
	Message string
}

// Service distribuye eventos a los suscriptores registrados.
type Service struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// NewService crea el servicio; se construye una sola vez al iniciar la app.
func NewService() *Service {
	return &Service{subs: make(map[int]func(Event))}
}

// Subscribe registra fn y devuelve la función para desregistrarla.
func (s *Service) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Publish entrega el evento a todos los suscriptores actuales, en la misma
// goroutine del publicador.
func (s *Service) Publish(e Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// Publishf es azúcar para publicar con nivel y mensaje directos.
func (s *Service) Publishf(level Level, message string) {
	s.Publish(Event{Level: level, Message: message})
}
