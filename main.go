package main

import (
	"net/http"

	"github.com/admelck/lazy-proxy-unity/app"
	fwapp "github.com/admelck/lazy-proxy-unity/framework/app"
	fwhttp "github.com/admelck/lazy-proxy-unity/framework/http"
	"github.com/admelck/lazy-proxy-unity/framework/http/validation"
	"github.com/admelck/lazy-proxy-unity/framework/lazyproxy"
)

func main() {
	application := fwapp.New() // loads .env automatically
	if err := application.Register(&app.ServiceProvider{}); err != nil {
		panic(err)
	}
	if err := application.Boot(); err != nil {
		panic(err)
	}

	r := application.Router()

	// Nothing below constructs a service: handlers receive proxies and the
	// real Reporter/Mailer come up on the first request that uses them.

	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		fwhttp.NewResponse(w).Success(map[string]any{
			"reporter_constructed": lazyproxy.Constructed[app.Reporter](application.Container),
			"mailer_constructed":   lazyproxy.Constructed[app.Mailer](application.Container),
		})
	})

	r.Get("/reports/{name}", func(w http.ResponseWriter, rq *http.Request) {
		req, res := fwhttp.NewRequest(rq), fwhttp.NewResponse(w)

		name := req.RouteParam("name")
		v := validation.Make(map[string]string{"name": name},
			validation.Rules{"name": "required|alpha_dash|max:100"})
		if v.Fails() {
			res.ValidationError(v.Errors())
			return
		}

		reporter, err := lazyproxy.Resolve[app.Reporter](application.Container)
		if err != nil {
			res.ServerError(err.Error())
			return
		}
		// First call here constructs the ReportGenerator (and, because its
		// factory resolves a Mailer proxy, only a proxy for the mailer).
		report, err := reporter.Generate(name)
		if err != nil {
			res.Error(http.StatusBadRequest, err.Error())
			return
		}
		res.Success(report)
	})

	r.Post("/reports/{name}/deliver", func(w http.ResponseWriter, rq *http.Request) {
		req, res := fwhttp.NewRequest(rq), fwhttp.NewResponse(w)

		var body struct {
			Recipient string `json:"recipient"`
		}
		if err := req.Bind(&body); err != nil {
			res.Error(http.StatusBadRequest, err.Error())
			return
		}
		v := validation.Make(map[string]string{
			"name":      req.RouteParam("name"),
			"recipient": body.Recipient,
		}, validation.Rules{
			"name":      "required|alpha_dash|max:100",
			"recipient": "required|email",
		})
		if v.Fails() {
			res.ValidationError(v.Errors())
			return
		}

		reporter, err := lazyproxy.Resolve[app.Reporter](application.Container)
		if err != nil {
			res.ServerError(err.Error())
			return
		}
		// Deliver touches the Mailer, so the mail transport is constructed
		// on the first delivery, not before.
		if err := reporter.Deliver(req.RouteParam("name"), body.Recipient); err != nil {
			res.Error(http.StatusBadRequest, err.Error())
			return
		}
		res.Accepted(map[string]any{"status": "delivered"})
	})

	application.Run()
}
