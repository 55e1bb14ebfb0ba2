package main

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsstepfunctions"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsstepfunctionstasks"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type UserServiceStackProps struct {
	awscdk.StackProps
}

func NewUserServiceStack(scope constructs.Construct, id string, props *UserServiceStackProps, settings *StageSettings) awscdk.Stack {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}
	stack := awscdk.NewStack(scope, &id, &sprops)

	table := newUserTable(stack, settings)
	role := newLambdaRole(stack, table)
	logGroup := newLogGroup(stack, id)
	userFn := newUserFunction(stack, id, role, table, logGroup, settings)
	healthFn := newHealthFunction(stack, id, settings)
	api := newRestApi(stack, id, userFn, healthFn, settings)
	stateMachine := newStateMachine(stack, userFn)

	awscdk.NewCfnOutput(stack, jsii.String("LambdaFunctionName"), &awscdk.CfnOutputProps{Value: userFn.FunctionName()})
	awscdk.NewCfnOutput(stack, jsii.String("LambdaFunctionArn"), &awscdk.CfnOutputProps{Value: userFn.FunctionArn()})
	awscdk.NewCfnOutput(stack, jsii.String("LambdaFunctionRoleArn"), &awscdk.CfnOutputProps{Value: role.RoleArn()})
	awscdk.NewCfnOutput(stack, jsii.String("LambdaFunctionLogGroupName"), &awscdk.CfnOutputProps{Value: logGroup.LogGroupName()})
	awscdk.NewCfnOutput(stack, jsii.String("DynamoDbTableName"), &awscdk.CfnOutputProps{Value: table.TableName()})
	awscdk.NewCfnOutput(stack, jsii.String("DynamoDbTableArn"), &awscdk.CfnOutputProps{Value: table.TableArn()})
	awscdk.NewCfnOutput(stack, jsii.String("ApiGatewayUrl"), &awscdk.CfnOutputProps{Value: api.Url()})
	awscdk.NewCfnOutput(stack, jsii.String("StateMachineArn"), &awscdk.CfnOutputProps{Value: stateMachine.StateMachineArn()})

	return stack
}

func newUserTable(stack awscdk.Stack, settings *StageSettings) awsdynamodb.Table {
	return awsdynamodb.NewTable(stack, jsii.String("DynamoDbTable"), &awsdynamodb.TableProps{
		TableName: jsii.String(settings.TableName),
		PartitionKey: &awsdynamodb.Attribute{
			Name: jsii.String("id"),
			Type: awsdynamodb.AttributeType_STRING,
		},
		BillingMode:   awsdynamodb.BillingMode_PAY_PER_REQUEST,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})
}

func newLambdaRole(stack awscdk.Stack, table awsdynamodb.Table) awsiam.Role {
	role := awsiam.NewRole(stack, jsii.String("LambdaRole"), &awsiam.RoleProps{
		RoleName:    jsii.String("user-service-lambda-role"),
		Description: jsii.String("Role for Lambda to access services"),
		AssumedBy:   awsiam.NewServicePrincipal(jsii.String("lambda.amazonaws.com"), nil),
		ManagedPolicies: &[]awsiam.IManagedPolicy{
			awsiam.ManagedPolicy_FromAwsManagedPolicyName(jsii.String("service-role/AWSLambdaBasicExecutionRole")),
		},
	})

	role.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions: jsii.Strings(
			"dynamodb:DeleteItem",
			"dynamodb:PutItem",
			"dynamodb:Query",
			"dynamodb:GetItem",
			"dynamodb:Scan",
			"dynamodb:UpdateItem",
		),
		Resources: &[]*string{table.TableArn()},
	}))

	return role
}

func newLogGroup(stack awscdk.Stack, id string) awslogs.LogGroup {
	return awslogs.NewLogGroup(stack, jsii.String("LambdaLogGroup"), &awslogs.LogGroupProps{
		LogGroupName:  jsii.String(fmt.Sprintf("%s-log-group", id)),
		Retention:     awslogs.RetentionDays_ONE_DAY,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})
}

func newUserFunction(stack awscdk.Stack, id string, role awsiam.Role, table awsdynamodb.Table, logGroup awslogs.LogGroup, settings *StageSettings) awslambda.Function {
	return awslambda.NewFunction(stack, jsii.String("UserApiFunction"), &awslambda.FunctionProps{
		FunctionName: jsii.String(fmt.Sprintf("%s-user-api", id)),
		Description:  jsii.String(fmt.Sprintf("User CRUD function for %s", id)),
		Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
		Handler:      jsii.String("bootstrap"),
		Code:         awslambda.Code_FromAsset(jsii.String("../build/user-api"), nil),
		Timeout:      awscdk.Duration_Seconds(jsii.Number(settings.LambdaTimeoutSeconds)),
		MemorySize:   jsii.Number(settings.LambdaMemoryMB),
		Role:         role,
		LogGroup:     logGroup,
		Environment: &map[string]*string{
			"TABLE_NAME":  table.TableName(),
			"ENVIRONMENT": jsii.String(settings.Environment),
		},
	})
}

func newHealthFunction(stack awscdk.Stack, id string, settings *StageSettings) awslambda.Function {
	return awslambda.NewFunction(stack, jsii.String("HealthFunction"), &awslambda.FunctionProps{
		FunctionName: jsii.String(fmt.Sprintf("%s-health", id)),
		Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
		Handler:      jsii.String("bootstrap"),
		Code:         awslambda.Code_FromAsset(jsii.String("../build/health"), nil),
		Timeout:      awscdk.Duration_Seconds(jsii.Number(10)),
		MemorySize:   jsii.Number(settings.LambdaMemoryMB),
	})
}

func newRestApi(stack awscdk.Stack, id string, userFn awslambda.Function, healthFn awslambda.Function, settings *StageSettings) awsapigateway.RestApi {
	api := awsapigateway.NewRestApi(stack, jsii.String("ApiGw"), &awsapigateway.RestApiProps{
		RestApiName: jsii.String(fmt.Sprintf("%s-api", id)),
		Description: jsii.String("API Gateway for the user service"),
		DeployOptions: &awsapigateway.StageOptions{
			StageName:    jsii.String(settings.StageName),
			LoggingLevel: awsapigateway.MethodLoggingLevel_INFO,
		},
		CloudWatchRole: jsii.Bool(true),
		DefaultCorsPreflightOptions: &awsapigateway.CorsOptions{
			AllowOrigins: awsapigateway.Cors_ALL_ORIGINS(),
			AllowMethods: jsii.Strings("GET", "POST", "PUT", "DELETE"),
			AllowHeaders: jsii.Strings("*"),
		},
	})

	integration := awsapigateway.NewLambdaIntegration(userFn, nil)

	users := api.Root().AddResource(jsii.String("users"), nil)
	users.AddMethod(jsii.String("GET"), integration, nil)

	user := api.Root().AddResource(jsii.String("user"), nil)
	user.AddMethod(jsii.String("POST"), integration, nil)

	userID := user.AddResource(jsii.String("{user_id}"), nil)
	userID.AddMethod(jsii.String("GET"), integration, nil)
	userID.AddMethod(jsii.String("PUT"), integration, nil)
	userID.AddMethod(jsii.String("DELETE"), integration, nil)

	health := api.Root().AddResource(jsii.String("health"), nil)
	health.AddMethod(jsii.String("GET"), awsapigateway.NewLambdaIntegration(healthFn, nil), nil)

	return api
}

func newStateMachine(stack awscdk.Stack, userFn awslambda.Function) awsstepfunctions.StateMachine {
	sfnRole := awsiam.NewRole(stack, jsii.String("StepFunctionRole"), &awsiam.RoleProps{
		RoleName:    jsii.String("user-service-stepfunction-role"),
		Description: jsii.String("Role for Step Function to invoke the user-api function"),
		AssumedBy:   awsiam.NewServicePrincipal(jsii.String("states.amazonaws.com"), nil),
	})
	sfnRole.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:   jsii.Strings("lambda:InvokeFunction"),
		Resources: &[]*string{userFn.FunctionArn()},
	}))

	processRequest := awsstepfunctionstasks.NewLambdaInvoke(stack, jsii.String("ProcessRequest"), &awsstepfunctionstasks.LambdaInvokeProps{
		LambdaFunction: userFn,
		ResultPath:     jsii.String("$.result"),
		OutputPath:     jsii.String("$.result"),
	})

	fanOut := awsstepfunctions.NewMap(stack, jsii.String("ParallelProcessRequests"), &awsstepfunctions.MapProps{
		ItemsPath:      jsii.String("$.requests"),
		ResultPath:     jsii.String("$.results"),
		MaxConcurrency: jsii.Number(100),
	})
	fanOut.ItemProcessor(processRequest, nil)

	return awsstepfunctions.NewStateMachine(stack, jsii.String("StepFunction"), &awsstepfunctions.StateMachineProps{
		StateMachineName: jsii.String("UserServiceStepFunction"),
		DefinitionBody:   awsstepfunctions.DefinitionBody_FromChainable(fanOut),
		Role:             sfnRole,
		Timeout:          awscdk.Duration_Minutes(jsii.Number(5)),
	})
}

func main() {
	defer jsii.Close()

	settings, err := loadStageSettings()
	if err != nil {
		panic(err)
	}

	app := awscdk.NewApp(nil)

	NewUserServiceStack(app, "UserService", &UserServiceStackProps{
		awscdk.StackProps{
			StackName:   jsii.String("UserServiceStack"),
			Description: jsii.String("Serverless user CRUD stack"),
		},
	}, settings)

	app.Synth(nil)
}
