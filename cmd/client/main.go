package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"el-escriba-api/pkg/client"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "El Escriba server URL")
	flag.Parse()

	c := client.New(*serverURL)
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Println("El Escriba — asistente de redacción académica")
	for {
		for !c.LoggedIn() {
			mode := prompt(scanner, "login o register? ")
			username := prompt(scanner, "usuario: ")
			password := prompt(scanner, "contraseña: ")

			var err error
			if mode == "register" {
				if err = c.Register(ctx, username, password); err == nil {
					fmt.Println("¡Cuenta creada con éxito! Ahora inicia sesión.")
					continue
				}
			} else {
				err = c.Login(ctx, username, password)
			}
			if err != nil {
				fmt.Println("Error:", err)
			}
		}
		fmt.Printf("Bienvenido, %s. Comandos: /attach <ruta.pdf>, /logout, /quit\n", c.Username())

		// Logging out drops back to the auth prompt above.
		for c.LoggedIn() {
			line := prompt(scanner, "> ")
			switch {
			case line == "/quit":
				return
			case line == "/logout":
				c.Logout()
				fmt.Println("Sesión cerrada.")
			case strings.HasPrefix(line, "/attach "):
				path := strings.TrimSpace(strings.TrimPrefix(line, "/attach "))
				att, err := c.AttachFile(path)
				if err != nil {
					fmt.Println("Error:", err)
					continue
				}
				fmt.Printf("Archivo listo: %s\n", att.Name)
			default:
				reply, err := c.Send(ctx, line)
				if err != nil {
					fmt.Println("Error: La pluma se ha roto. Verifica tu conexión o intenta de nuevo.")
					log.Printf("send failed: %v", err)
					continue
				}
				fmt.Println(reply)
			}
		}
	}
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(scanner.Text())
}
