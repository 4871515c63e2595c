package email

import (
	"bytes"
	"fmt"
	"log"
	"net/smtp"
	"strconv"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	FromName string
	FromAddr string
}

// PortFromString convierte el puerto de la config (string de entorno) a int;
// con entrada inválida devuelve 0 y Send usa el default.
func PortFromString(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Send envía un mail de texto plano. Con User vacío no se manda AUTH
// (útil con MailHog en desarrollo).
func (c *Config) Send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("destinatario de e-mail vacío")
	}
	if c.Host == "" {
		return fmt.Errorf("SMTP host no configurado")
	}
	if c.FromAddr == "" {
		return fmt.Errorf("SMTP remitente (From) no configurado")
	}
	port := c.Port
	if port == 0 {
		port = 25
	}
	addr := fmt.Sprintf("%s:%d", c.Host, port)
	from := c.FromAddr
	if c.FromName != "" {
		from = fmt.Sprintf("%s <%s>", c.FromName, c.FromAddr)
	}
	var buf bytes.Buffer
	buf.WriteString("From: " + from + "\r\n")
	buf.WriteString("To: " + to + "\r\n")
	buf.WriteString("Subject: " + subject + "\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	if err := smtp.SendMail(addr, c.authForSend(), c.FromAddr, []string{to}, buf.Bytes()); err != nil {
		log.Printf("[email] falla al enviar a %s asunto=%q: %v", to, subject, err)
		return err
	}
	return nil
}

func (c *Config) authForSend() smtp.Auth {
	if c.User != "" {
		return smtp.PlainAuth("", c.User, c.Pass, c.Host)
	}
	return nil
}

// SendRecordatorio arma y envía el recordatorio de turno.
func (c *Config) SendRecordatorio(to, nombre, fecha, hora string) error {
	body := fmt.Sprintf("Hola %s,\n\nTe recordamos tu turno del %s a las %s.\nSi no podés asistir, avisanos para reasignar el horario.\n\nConsultorio Quiropraxia", nombre, fecha, hora)
	return c.Send(to, "Recordatorio de turno - "+fecha, body)
}
