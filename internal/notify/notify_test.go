package notify

import "testing"

func TestPublishSubscribe(t *testing.T) {
	s := NewService()
	var got []Event
	unsub := s.Subscribe(func(e Event) { got = append(got, e) })

	s.Publishf(Success, "Paciente creado")
	s.Publishf(Error, "Turno duplicado")
	if len(got) != 2 || got[0].Message != "Paciente creado" || got[1].Level != Error {
		t.Fatalf("eventos recibidos: %+v", got)
	}

	unsub()
	s.Publishf(Info, "no debería llegar")
	if len(got) != 2 {
		t.Fatalf("suscriptor dado de baja siguió recibiendo: %+v", got)
	}
}

func TestMultipleSubscribers(t *testing.T) {
	s := NewService()
	a, b := 0, 0
	s.Subscribe(func(Event) { a++ })
	unsubB := s.Subscribe(func(Event) { b++ })
	s.Publishf(Info, "x")
	unsubB()
	s.Publishf(Info, "y")
	if a != 2 || b != 1 {
		t.Fatalf("a=%d b=%d", a, b)
	}
}

func TestNoSharedStateBetweenServices(t *testing.T) {
	// Dos servicios no comparten suscriptores (antes eran arrays globales).
	s1, s2 := NewService(), NewService()
	n := 0
	s1.Subscribe(func(Event) { n++ })
	s2.Publishf(Info, "solo s2")
	if n != 0 {
		t.Fatal("suscriptor de s1 recibió evento de s2")
	}
}
