/*
Copyright 2026 migalsp.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"flag"
	"os"
	"time"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	// to ensure that exec-entrypoint and run can make use of them.
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	easyscalev1 "github.com/migalsp/easyscale-operator/api/v1"
	"github.com/migalsp/easyscale-operator/internal/api"
	"github.com/migalsp/easyscale-operator/internal/cloud"
	"github.com/migalsp/easyscale-operator/internal/controller"
	"github.com/migalsp/easyscale-operator/internal/kube"
	"github.com/migalsp/easyscale-operator/internal/scaling"
	"github.com/migalsp/easyscale-operator/internal/state"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(easyscalev1.AddToScheme(scheme))
}

func main() {
	var metricsAddr string
	var probeAddr string
	var apiPort string
	var enableLeaderElection bool
	var cooldown time.Duration
	var checkInterval time.Duration
	var dryRun bool
	var enableRDS bool
	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080", "The address the metric endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.StringVar(&apiPort, "api-port", "8082", "The port the JSON API listens on.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false,
		"Enable leader election for controller manager. "+
			"Enabling this will ensure there is only one active controller manager.")
	flag.DurationVar(&cooldown, "cooldown", 5*time.Minute,
		"Minimum time between scaling operations on the same target.")
	flag.DurationVar(&checkInterval, "check-interval", time.Minute,
		"How often each ScalingRule is re-evaluated.")
	flag.BoolVar(&dryRun, "dry-run", false,
		"Compute and record scaling decisions without modifying the cluster.")
	flag.BoolVar(&enableRDS, "enable-rds", false,
		"Stop and start linked AWS RDS instances along with their workloads.")
	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme: scheme,
		Metrics: metricsserver.Options{
			BindAddress: metricsAddr,
		},
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "scalingrules.easyscale.io",
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	store := state.NewStore(cooldown)
	engine := scaling.NewEngine(store, &kube.ResourceManager{Client: mgr.GetClient()}, dryRun)

	var pauser *cloud.Pauser
	if enableRDS {
		pauser, err = cloud.NewPauser(context.Background())
		if err != nil {
			setupLog.Error(err, "unable to build RDS client")
			os.Exit(1)
		}
	}

	if err = (&controller.ScalingRuleReconciler{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Engine:   engine,
		RDS:      pauser,
		Interval: checkInterval,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "ScalingRule")
		os.Exit(1)
	}

	if err := mgr.Add(&api.Server{
		Client: mgr.GetClient(),
		Store:  store,
		Port:   apiPort,
	}); err != nil {
		setupLog.Error(err, "unable to add API server")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager", "cooldown", cooldown, "checkInterval", checkInterval, "dryRun", dryRun)
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
