package internal

import (
	"net/http"

	"github.com/KanoeWallet/Kanoe/internal/controllers"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	"github.com/KanoeWallet/Kanoe/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, opsController *controllers.OperationsController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/plans", http.HandlerFunc(apiController.GetPlans))
	routers.Get("/plan", http.HandlerFunc(apiController.GetPlan))
	routers.Get("/subscription", http.HandlerFunc(apiController.GetSubscription))
	routers.Get("/subscriptions/updates", http.HandlerFunc(apiController.GetSubscriptionUpdates))
	routers.Get("/escrow/updates", http.HandlerFunc(apiController.GetEscrowUpdates))
	routers.Get("/escrow/max-id", http.HandlerFunc(apiController.GetMaxPaymentId))
	routers.Post("/approvals/check", http.HandlerFunc(apiController.CheckApprovals))
	routers.Post("/nft/check", http.HandlerFunc(apiController.CheckNftCollections))

	routers.Post("/plans", http.HandlerFunc(opsController.AddPlan))
	routers.Post("/ledger/allowed", http.HandlerFunc(opsController.ChangeAllowed))
	routers.Post("/pay", http.HandlerFunc(opsController.Pay))
	routers.Post("/pay/extend", http.HandlerFunc(opsController.PayExtend))
	routers.Post("/escrow/reserve", http.HandlerFunc(opsController.ReserveGas))
	routers.Post("/inheritance", http.HandlerFunc(opsController.SendInheritance))
	routers.Post("/inheritance/nft", http.HandlerFunc(opsController.SendInheritanceNft))

	if conf.Development.Enabled {
		routers.Post("/assets/approve", http.HandlerFunc(opsController.Approve))
		routers.Post("/assets/transfer", http.HandlerFunc(opsController.Transfer))
		routers.Post("/assets/nft/approve-all", http.HandlerFunc(opsController.ApproveAllNft))
		routers.Get("/assets/balance", http.HandlerFunc(opsController.Balance))
		routers.Post("/assets/mint", http.HandlerFunc(opsController.Mint))
		routers.Post("/assets/nft/mint", http.HandlerFunc(opsController.MintNft))
		routers.Post("/assets/native/fund", http.HandlerFunc(opsController.FundNative))
		routers.Get("/assets/native/balance", http.HandlerFunc(opsController.NativeBalance))
	}
	return routers
}
