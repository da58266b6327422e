package config

import (
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
)

var C Config

type Config struct {
	Rest   RestConf
	Log    LogConf
	Banner BannerConf
	Faucet FaucetConf
	Solana SolanaConf
	Events EventsConf
}

type RestConf struct {
	rest.RestConf
}

type LogConf struct {
	logx.LogConf
}

type BannerConf struct {
	Text     string `json:",default=FAUCET"`
	Color    string `json:",default=green"`
	FontName string `json:",default=standard,options=big|larry3d|starwars|standard"`
}

type FaucetConf struct {
	ProgramID     string `json:",optional"`
	Label         string `json:",default=mint"`
	AccessControl string `json:",default=none"`
	// Backend selects the in-process simnet or a cluster reached over RPC.
	Backend     string `json:",default=simnet,options=simnet|rpc"`
	Decimals    uint8  `json:",default=9"`
	PriorityFee uint64 `json:",optional"`
}

type SolanaConf struct {
	RPC        string        `json:",default=http://127.0.0.1:8899"`
	WS         string        `json:",optional"`
	Keypair    string        `json:",optional,env=SOLANA_KEYPAIR"`
	Commitment string        `json:",default=confirmed,options=processed|confirmed|finalized"`
	Timeout    time.Duration `json:",default=30s"`
	// Airdrop funds the simnet fee payer, in lamports.
	Airdrop uint64 `json:",default=100000000000"`
}

type EventsConf struct {
	Capacity int `json:",default=256,range=[1:]"`
	Buffer   int `json:",default=64,range=[1:]"`
}
