package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/orca-so/whirlpools-sub004/pkg/manager"
	"github.com/orca-so/whirlpools-sub004/pkg/sol"
	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
	"github.com/orca-so/whirlpools-sub004/utils"
)

func main() {
	root := &cobra.Command{
		Use:          "whirlpoolctl",
		Short:        "Inspect and quote concentrated-liquidity pools",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("rpc", "https://api.mainnet-beta.solana.com", "RPC endpoint")
	root.PersistentFlags().Int("rate-limit", 10, "RPC requests per second")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("rpc", root.PersistentFlags().Lookup("rpc"))
	_ = viper.BindPFlag("rate_limit", root.PersistentFlags().Lookup("rate-limit"))
	_ = viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("whirlpool")
	viper.AutomaticEnv()

	poolsCmd := &cobra.Command{
		Use:   "pools <mint-a> <mint-b>",
		Short: "List pools for a token pair",
		Args:  cobra.ExactArgs(2),
		RunE:  runPools,
	}
	root.AddCommand(poolsCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote <whirlpool> <amount-in>",
		Short: "Quote a swap against current on-chain state",
		Args:  cobra.ExactArgs(2),
		RunE:  runQuote,
	}
	quoteCmd.Flags().Bool("b-to-a", false, "swap token B for token A instead of A for B")
	root.AddCommand(quoteCmd)

	swapCmd := &cobra.Command{
		Use:   "swap <whirlpool> <amount-in>",
		Short: "Execute a swap on chain",
		Args:  cobra.ExactArgs(2),
		RunE:  runSwap,
	}
	swapCmd.Flags().Bool("b-to-a", false, "swap token B for token A instead of A for B")
	swapCmd.Flags().String("keypair", "", "path to a solana keygen file")
	swapCmd.Flags().Uint64("min-out", 0, "minimum acceptable output amount (default: the quoted amount)")
	swapCmd.Flags().Bool("dry-run", false, "simulate the swap without sending it")
	_ = swapCmd.MarkFlagRequired("keypair")
	root.AddCommand(swapCmd)

	positionCmd := &cobra.Command{
		Use:   "position <position-mint>",
		Short: "Show a position's state",
		Args:  cobra.ExactArgs(1),
		RunE:  runPosition,
	}
	root.AddCommand(positionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (context.Context, context.CancelFunc, *sol.Client, *zap.Logger, error) {
	logger, err := newLogger(viper.GetString("log_level"))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	client := sol.NewClient(viper.GetString("rpc"), viper.GetInt("rate_limit"), logger)
	return ctx, stop, client, logger, nil
}

func runPools(cmd *cobra.Command, args []string) error {
	ctx, stop, client, logger, err := setup()
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	mintA, err := parseKey(args[0])
	if err != nil {
		return err
	}
	mintB, err := parseKey(args[1])
	if err != nil {
		return err
	}

	pools, err := client.FindWhirlpools(ctx, mintA, mintB)
	if err != nil {
		return err
	}
	logger.Info("pools found", zap.Int("count", len(pools)))
	for key, pool := range pools {
		fmt.Printf("%s\ttick_spacing=%d\tfee_rate=%d\tliquidity=%s\ttick=%d\n",
			key, pool.TickSpacing, pool.FeeRate, pool.Liquidity.String(), pool.TickCurrentIndex)
	}
	return nil
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx, stop, client, logger, err := setup()
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	poolKey, err := parseKey(args[0])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}
	bToA, _ := cmd.Flags().GetBool("b-to-a")
	aToB := !bToA

	pool, err := client.FetchWhirlpool(ctx, poolKey)
	if err != nil {
		return err
	}
	arrays, _, err := client.FetchSwapTickArrays(ctx, poolKey, pool, aToB)
	if err != nil {
		return err
	}
	oracle, err := client.FetchOracle(ctx, poolKey)
	if err != nil {
		return err
	}
	clock, err := client.GetClock(ctx)
	if err != nil {
		return err
	}

	limit := whirlpool.MinSqrtPrice
	if !aToB {
		limit = whirlpool.MaxSqrtPrice
	}
	update, err := manager.ExecuteSwap(
		pool,
		manager.NewSwapTickSequence(arrays...),
		oracle,
		amount,
		limit,
		true, // exact input
		aToB,
		clock.UnixTimestamp,
	)
	if err != nil {
		return err
	}

	logger.Info("quote",
		zap.String("pool", utils.ShortAddress(poolKey.String())),
		zap.Bool("a_to_b", aToB),
		zap.Uint64("amount_a", update.AmountA),
		zap.Uint64("amount_b", update.AmountB),
		zap.Int32("end_tick", update.NextTickIndex),
	)
	fmt.Printf("amount_a=%d amount_b=%d end_tick=%d end_sqrt_price=%s\n",
		update.AmountA, update.AmountB, update.NextTickIndex, update.NextSqrtPrice.String())
	return nil
}

func runSwap(cmd *cobra.Command, args []string) error {
	ctx, stop, client, logger, err := setup()
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	poolKey, err := parseKey(args[0])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}
	bToA, _ := cmd.Flags().GetBool("b-to-a")
	aToB := !bToA
	keypairPath, _ := cmd.Flags().GetString("keypair")
	key, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
	if err != nil {
		return fmt.Errorf("failed to load keypair %q: %w", keypairPath, err)
	}

	pool, err := client.FetchWhirlpool(ctx, poolKey)
	if err != nil {
		return err
	}
	arrays, arrayKeys, err := client.FetchSwapTickArrays(ctx, poolKey, pool, aToB)
	if err != nil {
		return err
	}
	oracle, err := client.FetchOracle(ctx, poolKey)
	if err != nil {
		return err
	}
	clock, err := client.GetClock(ctx)
	if err != nil {
		return err
	}

	limit := whirlpool.MinSqrtPrice
	if !aToB {
		limit = whirlpool.MaxSqrtPrice
	}
	update, err := manager.ExecuteSwap(
		pool,
		manager.NewSwapTickSequence(arrays...),
		oracle,
		amount,
		limit,
		true, // exact input
		aToB,
		clock.UnixTimestamp,
	)
	if err != nil {
		return err
	}
	quotedOut := update.AmountB
	inMint, outMint := pool.TokenMintA, pool.TokenMintB
	if !aToB {
		quotedOut = update.AmountA
		inMint, outMint = pool.TokenMintB, pool.TokenMintA
	}
	minOut, _ := cmd.Flags().GetUint64("min-out")
	if minOut == 0 {
		minOut = quotedOut
	}

	inAccount, balance, err := client.GetUserTokenBalance(ctx, key.PublicKey(), inMint)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("input balance %d is below swap amount %d", balance, amount)
	}
	outAccount, err := client.EnsureTokenAccount(ctx, key, outMint)
	if err != nil {
		return err
	}

	oracleKey, _, err := whirlpool.DeriveOracleAddress(poolKey)
	if err != nil {
		return err
	}
	limitU128, err := whirlpool.U128FromInt(limit)
	if err != nil {
		return err
	}
	accounts := whirlpool.SwapAccounts{
		TokenAuthority:     key.PublicKey(),
		Whirlpool:          poolKey,
		TokenOwnerAccountA: inAccount,
		TokenVaultA:        pool.TokenVaultA,
		TokenOwnerAccountB: outAccount,
		TokenVaultB:        pool.TokenVaultB,
		TickArray0:         arrayKeys[0],
		TickArray1:         arrayKeys[1],
		TickArray2:         arrayKeys[2],
		Oracle:             oracleKey,
	}
	if !aToB {
		accounts.TokenOwnerAccountA, accounts.TokenOwnerAccountB = outAccount, inAccount
	}

	inst := whirlpool.NewSwapInstruction(amount, minOut, limitU128, true, aToB, accounts)
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		res, err := client.SimulateInstructions(ctx, []solana.PrivateKey{key}, inst)
		if err != nil {
			return err
		}
		if res.Value.Err != nil {
			return fmt.Errorf("simulation failed: %v", res.Value.Err)
		}
		fmt.Printf("simulation ok: quoted_out=%d min_out=%d\n", quotedOut, minOut)
		return nil
	}
	sig, err := client.SubmitInstructions(ctx, []solana.PrivateKey{key}, inst)
	if err != nil {
		return err
	}
	logger.Info("swap submitted",
		zap.String("pool", utils.ShortAddress(poolKey.String())),
		zap.Uint64("amount_in", amount),
		zap.Uint64("quoted_out", quotedOut),
		zap.Stringer("signature", sig),
	)
	fmt.Printf("signature=%s quoted_out=%d min_out=%d\n", sig, quotedOut, minOut)
	return nil
}

func runPosition(cmd *cobra.Command, args []string) error {
	ctx, stop, client, logger, err := setup()
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	mint, err := parseKey(args[0])
	if err != nil {
		return err
	}
	positionKey, _, err := whirlpool.DerivePositionAddress(mint)
	if err != nil {
		return err
	}
	position, err := client.FetchPosition(ctx, positionKey)
	if err != nil {
		return err
	}

	logger.Debug("position fetched", zap.Stringer("address", positionKey))
	fmt.Printf("whirlpool=%s range=[%d,%d] liquidity=%s fee_owed_a=%d fee_owed_b=%d\n",
		position.Whirlpool, position.TickLowerIndex, position.TickUpperIndex,
		position.Liquidity.String(), position.FeeOwedA, position.FeeOwedB)
	for i, r := range position.RewardInfos {
		fmt.Printf("reward[%d] owed=%d\n", i, r.AmountOwed)
	}
	return nil
}

func parseKey(s string) (solana.PublicKey, error) {
	if _, err := utils.ParseAddress(s); err != nil {
		return solana.PublicKey{}, err
	}
	return solana.MustPublicKeyFromBase58(s), nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
