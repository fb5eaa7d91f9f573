package netsvr

import (
	"net/http"

	"github.com/zintix-labs/gemlab/server/app"
)

// NetSvr 路由加上服務啟停。只交給最外層 main 使用，其他層只面向 NetRouter。
// 實作同時是 app.Component，可直接交給 app.App 管理生命週期。
type NetSvr interface {
	NetRouter
	app.Component
	http.Handler
}

// NetRouter 純路由行為；Group 回呼只拿得到 NetRouter，看不到 Run/Shutdown
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Put(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
