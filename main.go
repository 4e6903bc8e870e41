package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"uniquehttpd/internal/bootstrap"
	"uniquehttpd/internal/config"
	"uniquehttpd/internal/console"
	"uniquehttpd/internal/version"
	"uniquehttpd/server"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	conf, err := config.MustLoad(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %s", err)
	}
	if conf.ShowVersion() {
		fmt.Println(version.GetVersion())
		return
	}
	console.SetDebug(conf.Debug())

	app := server.New(conf)
	if err = registerRoutes(app, conf.RootDir()); err != nil {
		log.Fatalf("Failed to register routes: %s", err)
	}

	if err = bootstrap.New(conf, app).Run(); err != nil {
		log.Fatalf("Server stopped: %s", err)
	}
}

func registerRoutes(app server.Server, root string) error {
	if err := app.RegisterRoute("GET", "/", func(_ *server.Request, w server.ResponseWriter) {
		_ = w.SendFile(filepath.Join(root, "index.html"))
	}); err != nil {
		return err
	}

	if err := app.RegisterRoute("POST", "/login", login); err != nil {
		return err
	}

	return app.RegisterFolder("/")
}

func login(req *server.Request, w server.ResponseWriter) {
	user, _ := req.Param("username")
	pass, _ := req.Param("password")
	if user != "joe" || pass != "123" {
		_ = w.NotFound()
		return
	}
	w.AddCookie("user", user)
	_ = w.SendText("Welcome " + user)
}
